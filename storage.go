package modelsync

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CompiledCacheSuffix is appended to the artifact path to derive the
// compiled-artifact cache location.
const CompiledCacheSuffix = ".compiled"

// storageInterface defines operations for local filesystem management.
// Implemented by *storage for production and mockStorage for tests.
// This interface enables test isolation without filesystem dependencies.
type storageInterface interface {
	// artifactPath returns the absolute path of the raw artifact file.
	artifactPath() string

	// compiledPath returns the absolute path of the compiled-artifact cache.
	compiledPath() string

	// lockPath returns the path of the per-artifact lock file.
	lockPath() string

	// artifactExists reports whether a non-empty artifact file is present.
	artifactExists() (bool, error)

	// artifactDigest returns the normalized content digest of the artifact.
	artifactDigest() (string, error)

	// tempFile creates a temporary file in the artifact's directory, so a
	// later rename stays on one filesystem.
	tempFile() (*os.File, error)

	// replaceArtifact atomically renames tmpPath over the artifact path.
	replaceArtifact(tmpPath string) error

	// discard removes a temporary file, ignoring absence.
	discard(tmpPath string)

	// compiledExists reports whether a compiled cache is present.
	compiledExists() bool

	// removeCompiled deletes the compiled cache if present.
	removeCompiled() error
}

// storage handles all local filesystem operations for one artifact.
// Implements storageInterface.
type storage struct {
	// baseDir is the directory holding the artifact and its derived files.
	baseDir string

	// name is the artifact file name within baseDir.
	name string
}

// Ensure storage implements storageInterface.
var _ storageInterface = (*storage)(nil)

// envVarName constructs an environment variable name from the app name.
// Converts appName to uppercase and appends "_SYNC_DIR".
// Example: envVarName("xprim") returns "XPRIM_SYNC_DIR".
func envVarName(appName string) string {
	return strings.ToUpper(appName) + "_SYNC_DIR"
}

// newStorage creates a storage instance for the given configuration.
func newStorage(cfg Config) (*storage, error) {
	var baseDir string

	// Priority: env var > Config.DataDir > platform default
	if envDir := os.Getenv(envVarName(cfg.AppName)); envDir != "" {
		baseDir = envDir
	} else if cfg.DataDir != "" {
		baseDir = cfg.DataDir
	} else {
		defaultDir, err := getDefaultDataDir(cfg.AppName)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving default data dir: %v", ErrStorage, err)
		}
		baseDir = defaultDir
	}

	s := &storage{baseDir: baseDir, name: cfg.artifactName()}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating storage directory: %v", ErrStorage, err)
	}

	return s, nil
}

// artifactPath returns the absolute path of the raw artifact file.
func (s *storage) artifactPath() string {
	return filepath.Join(s.baseDir, s.name)
}

// compiledPath returns the absolute path of the compiled-artifact cache.
func (s *storage) compiledPath() string {
	return s.artifactPath() + CompiledCacheSuffix
}

// lockPath returns the path of the per-artifact lock file.
func (s *storage) lockPath() string {
	return s.artifactPath() + ".lock"
}

// artifactExists reports whether a non-empty artifact file is present.
// A zero-byte file is treated as absent: an empty artifact can never compile
// and carries no version to compare against.
func (s *storage) artifactExists() (bool, error) {
	info, err := os.Stat(s.artifactPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat artifact: %v", ErrStorage, err)
	}
	return info.Size() > 0, nil
}

// artifactDigest returns the normalized content digest of the artifact.
func (s *storage) artifactDigest() (string, error) {
	return fileDigest(s.artifactPath())
}

// tempFile creates a temporary file next to the artifact. Keeping the temp
// file in the same directory guarantees the commit rename never crosses a
// filesystem boundary.
func (s *storage) tempFile() (*os.File, error) {
	f, err := os.CreateTemp(s.baseDir, s.name+".download-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", ErrStorage, err)
	}
	return f, nil
}

// replaceArtifact atomically renames tmpPath over the artifact path.
func (s *storage) replaceArtifact(tmpPath string) error {
	if err := os.Rename(tmpPath, s.artifactPath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: renaming temp file into place: %v", ErrStorage, err)
	}
	return nil
}

// discard removes a temporary file. Failures are ignored; a leftover temp
// file is harmless and the next sync creates a fresh one.
func (s *storage) discard(tmpPath string) {
	os.Remove(tmpPath)
}

// compiledExists reports whether a compiled cache is present.
func (s *storage) compiledExists() bool {
	_, err := os.Stat(s.compiledPath())
	return err == nil
}

// removeCompiled deletes the compiled cache if present.
func (s *storage) removeCompiled() error {
	if err := os.RemoveAll(s.compiledPath()); err != nil {
		return fmt.Errorf("%w: removing compiled cache: %v", ErrStorage, err)
	}
	return nil
}
