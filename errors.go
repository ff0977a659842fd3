package modelsync

import "errors"

// Sentinel errors for synchronization operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrTransport indicates a network or connection failure, or an
	// unexpected non-2xx status from either endpoint.
	ErrTransport = errors.New("modelsync: transport error")

	// ErrUnauthorized indicates the digest or download endpoint rejected the
	// bearer token (HTTP 401 or 403). Callers should refresh the token
	// rather than retry blindly.
	ErrUnauthorized = errors.New("modelsync: unauthorized")

	// ErrParse indicates the digest endpoint returned a body that does not
	// match the expected {"digest": ..., "status": ...} shape.
	ErrParse = errors.New("modelsync: invalid digest response")

	// ErrStorage indicates a local filesystem operation failed.
	ErrStorage = errors.New("modelsync: storage error")

	// ErrCompile indicates the platform compiler rejected the raw artifact,
	// e.g. a corrupted download. The raw artifact file is left in place so
	// the compile can be retried without re-downloading.
	ErrCompile = errors.New("modelsync: compile failed")

	// ErrNoArtifact indicates no local artifact exists yet.
	ErrNoArtifact = errors.New("modelsync: no local artifact")

	// ErrBusy indicates another synchronization holds the per-path lock.
	ErrBusy = errors.New("modelsync: artifact is locked by another synchronization")

	// ErrInvalidConfig indicates the configuration is missing required
	// fields or contains unrecognized values.
	ErrInvalidConfig = errors.New("modelsync: invalid configuration")
)
