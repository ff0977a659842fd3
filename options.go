package modelsync

import (
	"net/http"
	"time"
)

// DefaultLockTimeout is the default timeout for acquiring the per-artifact
// lock before a synchronization gives up with ErrBusy.
const DefaultLockTimeout = 30 * time.Second

// Option configures a Synchronizer.
type Option func(*syncConfig)

// syncConfig holds configuration for Synchronizer construction.
type syncConfig struct {
	// httpClient is used for all requests to both endpoints.
	httpClient HTTPClient

	// logger receives diagnostic log messages.
	logger Logger

	// compiler produces the runnable artifact from the raw file.
	compiler Compiler

	// lockTimeout bounds per-artifact lock acquisition.
	lockTimeout time.Duration
}

// newSyncConfig returns a syncConfig with default values.
func newSyncConfig() *syncConfig {
	return &syncConfig{
		httpClient:  http.DefaultClient,
		compiler:    RawCompiler{},
		lockTimeout: DefaultLockTimeout,
	}
}

// WithHTTPClient sets a custom HTTP client for endpoint requests.
// Useful for testing with mock servers or customizing timeouts; the transport
// owns connect and read timeouts, not the synchronizer.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *syncConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) Option {
	return func(c *syncConfig) {
		c.logger = logger
	}
}

// WithCompiler sets the platform compiler used to produce the runnable
// artifact. If not set, RawCompiler is used.
func WithCompiler(compiler Compiler) Option {
	return func(c *syncConfig) {
		c.compiler = compiler
	}
}

// WithLockTimeout sets how long Synchronize waits for the per-artifact lock
// before returning ErrBusy. Non-positive values keep the default.
func WithLockTimeout(d time.Duration) Option {
	return func(c *syncConfig) {
		if d > 0 {
			c.lockTimeout = d
		}
	}
}

// SyncOption configures a single Synchronize call.
type SyncOption func(*runConfig)

// runConfig holds configuration for one Synchronize call.
type runConfig struct {
	// progressFn is called with phase and download progress updates.
	progressFn func(Progress)

	// forceCompile skips the compiled cache and recompiles unconditionally.
	forceCompile bool
}

// WithProgress sets a callback for progress updates during synchronization.
// The callback is invoked from the synchronizing goroutine.
func WithProgress(fn func(Progress)) SyncOption {
	return func(c *runConfig) {
		c.progressFn = fn
	}
}

// WithForceCompile recompiles the artifact even if a compiled cache exists.
func WithForceCompile() SyncOption {
	return func(c *runConfig) {
		c.forceCompile = true
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
