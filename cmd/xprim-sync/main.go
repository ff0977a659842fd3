// Command xprim-sync is a CLI harness for the modelsync package.
// It demonstrates the CLI integration and provides a working example.
//
// Configuration is loaded from a YAML config file and/or environment
// variables (environment wins):
//   - XPRIM_SYNC_CONFIG: path to a YAML config file (optional)
//   - XPRIM_SYNC_BASE_URL: base URL of the artifact service
//   - XPRIM_SYNC_TOKEN: bearer token for both endpoints
//   - XPRIM_SYNC_DIR: override for the data directory (handled by storage)
package main

import (
	"errors"
	"fmt"
	"os"

	modelsync "github.com/prethora/xprim-sync"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidConfig indicates invalid configuration or arguments.
	ExitInvalidConfig = 2

	// ExitTransportError indicates a network or endpoint failure.
	ExitTransportError = 3

	// ExitUnauthorized indicates the bearer token was rejected.
	ExitUnauthorized = 4

	// ExitStorageError indicates a filesystem operation failed.
	ExitStorageError = 5

	// ExitCompileError indicates the artifact could not be compiled.
	ExitCompileError = 6

	// ExitBusy indicates another synchronization holds the artifact lock.
	ExitBusy = 7
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitInvalidConfig)
	}

	cmd := modelsync.NewCommand(cfg)
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// loadConfig assembles the Config from the optional YAML file named by
// XPRIM_SYNC_CONFIG plus environment variable overrides.
func loadConfig() (modelsync.Config, error) {
	configPath := os.Getenv("XPRIM_SYNC_CONFIG")

	var cfg modelsync.Config
	if configPath != "" {
		var err error
		cfg, err = modelsync.LoadConfigFile(configPath)
		if err != nil {
			return modelsync.Config{}, err
		}
	}

	if cfg.AppName == "" {
		cfg.AppName = "xprim"
	}
	if env := os.Getenv("XPRIM_SYNC_BASE_URL"); env != "" {
		cfg.BaseURL = env
	}
	if env := os.Getenv("XPRIM_SYNC_TOKEN"); env != "" {
		cfg.Token = env
	}

	if cfg.BaseURL == "" && (cfg.DigestURL == "" || cfg.DownloadURL == "") {
		return modelsync.Config{}, errors.New("XPRIM_SYNC_BASE_URL or a config file with endpoint URLs is required")
	}

	return cfg, nil
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, modelsync.ErrInvalidConfig):
		return ExitInvalidConfig
	case errors.Is(err, modelsync.ErrUnauthorized):
		return ExitUnauthorized
	case errors.Is(err, modelsync.ErrTransport):
		return ExitTransportError
	case errors.Is(err, modelsync.ErrParse):
		return ExitTransportError
	case errors.Is(err, modelsync.ErrStorage):
		return ExitStorageError
	case errors.Is(err, modelsync.ErrCompile):
		return ExitCompileError
	case errors.Is(err, modelsync.ErrBusy):
		return ExitBusy
	default:
		return ExitGeneralError
	}
}
