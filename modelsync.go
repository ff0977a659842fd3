package modelsync

import (
	"context"
	"fmt"
)

// Synchronizer keeps one local artifact in sync with its remote source of
// truth and resolves the runnable form of the artifact.
//
// Methods are safe for concurrent use within a process; concurrent
// Synchronize calls serialize on the per-artifact lock. For CLI integration,
// use NewCommand instead.
type Synchronizer interface {
	// Synchronize brings the local artifact up to date and returns the
	// runnable artifact. A missing local artifact downloads unconditionally;
	// an existing one downloads only when its digest differs from the digest
	// endpoint's latest record. Returns ErrBusy if another synchronization
	// holds the per-artifact lock past the lock timeout.
	Synchronize(ctx context.Context, opts ...SyncOption) (SyncResult, error)

	// CheckUpdate compares local and remote digests without side effects.
	CheckUpdate(ctx context.Context) (UpdateStatus, error)

	// LocalDigest returns the normalized digest of the local artifact.
	// Returns ErrNoArtifact if nothing has been synchronized yet.
	LocalDigest(ctx context.Context) (string, error)

	// ArtifactPath returns the absolute path of the raw artifact file.
	ArtifactPath() string

	// CompiledPath returns the absolute path of the compiled-artifact cache.
	CompiledPath() string

	// InvalidateCompiled removes the compiled cache so the next Synchronize
	// recompiles from the raw artifact.
	InvalidateCompiled() error
}

// Ensure synchronizer implements Synchronizer.
var _ Synchronizer = (*synchronizer)(nil)

// NewSynchronizer creates a Synchronizer with the given configuration.
// Config must carry an AppName and either BaseURL or both DigestURL and
// DownloadURL; otherwise ErrInvalidConfig is returned.
func NewSynchronizer(cfg Config, opts ...Option) (Synchronizer, error) {
	if cfg.AppName == "" {
		return nil, fmt.Errorf("%w: AppName is required", ErrInvalidConfig)
	}
	if cfg.BaseURL == "" && (cfg.DigestURL == "" || cfg.DownloadURL == "") {
		return nil, fmt.Errorf("%w: BaseURL or both DigestURL and DownloadURL are required", ErrInvalidConfig)
	}

	sc := newSyncConfig()
	for _, opt := range opts {
		opt(sc)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	endpoint := newEndpointClient(cfg.digestURL(), cfg.downloadURL(), cfg.Token, sc.httpClient, sc.logger)

	return &synchronizer{
		cfg:         cfg,
		endpoint:    endpoint,
		storage:     storage,
		compiler:    sc.compiler,
		logger:      sc.logger,
		lockTimeout: sc.lockTimeout,
	}, nil
}
