//go:build windows

package modelsync

import (
	"errors"
	"os"
	"path/filepath"
)

// getDefaultDataDir returns the default data directory for Windows:
// %APPDATA%\<appName>\sync\
func getDefaultDataDir(appName string) (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return "", errors.New("APPDATA environment variable not set")
	}
	return filepath.Join(appData, appName, "sync"), nil
}
