//go:build darwin

package modelsync

import (
	"os"
	"path/filepath"
)

// getDefaultDataDir returns the default data directory for macOS:
// ~/Library/Application Support/<appName>/sync/
func getDefaultDataDir(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", appName, "sync"), nil
}
