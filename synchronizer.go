package modelsync

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// synchronizer is the concrete implementation of the Synchronizer interface.
type synchronizer struct {
	// cfg holds the immutable configuration.
	cfg Config

	// endpoint handles communication with the digest and download endpoints.
	endpoint *endpointClient

	// storage handles local filesystem operations.
	storage storageInterface

	// compiler produces the runnable artifact.
	compiler Compiler

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// lockTimeout bounds acquisition of the cross-process artifact lock.
	lockTimeout time.Duration

	// syncMu serializes Synchronize calls within this process.
	syncMu sync.Mutex
}

// Synchronize brings the local artifact up to date with the remote service
// and returns the runnable artifact.
//
// If no local artifact exists it downloads unconditionally. Otherwise it
// compares the local content digest against the digest endpoint's latest
// record and downloads only on a mismatch. The runnable artifact is then
// resolved from the compiled cache or by compiling, per the cache policy.
func (s *synchronizer) Synchronize(ctx context.Context, opts ...SyncOption) (SyncResult, error) {
	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}

	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	// Cross-process lock: at most one in-flight replacement per artifact
	// path. Overlapping calls would race the replace rename against digest
	// reads of the same file.
	lock, err := newFileLock(s.storage.lockPath(), s.lockTimeout)
	if err != nil {
		return SyncResult{}, fmt.Errorf("%w: creating artifact lock: %v", ErrStorage, err)
	}
	if err := lock.Lock(); err != nil {
		return SyncResult{}, err
	}
	defer lock.Unlock()

	s.report(rc, Progress{Phase: PhaseChecking})

	exists, err := s.storage.artifactExists()
	if err != nil {
		return SyncResult{}, err
	}

	needFetch := !exists
	if exists {
		localDigest, err := s.storage.artifactDigest()
		if err != nil {
			return SyncResult{}, err
		}

		remote, err := s.endpoint.fetchLatestDigest(ctx)
		if err != nil {
			return SyncResult{}, err
		}

		needFetch = !DigestsEqual(localDigest, remote.Digest)
		if s.logger != nil {
			s.logger.Debug("digest comparison",
				"local", localDigest,
				"remote", NormalizeDigest(remote.Digest),
				"stale", needFetch)
		}
	}

	if needFetch {
		if err := s.fetchAndReplace(ctx, rc); err != nil {
			return SyncResult{}, err
		}
		if s.cfg.CachePolicy == RecompileAfterDownload {
			if err := s.storage.removeCompiled(); err != nil {
				return SyncResult{}, err
			}
		}
	} else {
		s.report(rc, Progress{Phase: PhaseUpToDate})
	}

	digest, err := s.storage.artifactDigest()
	if err != nil {
		return SyncResult{}, err
	}

	runnable, compiled, err := s.resolveRunnable(ctx, rc)
	if err != nil {
		return SyncResult{}, err
	}

	return SyncResult{
		Runnable:     runnable,
		Updated:      needFetch,
		Compiled:     compiled,
		Digest:       digest,
		ArtifactPath: s.storage.artifactPath(),
		CompiledPath: s.storage.compiledPath(),
	}, nil
}

// fetchAndReplace downloads the artifact to a temporary file and atomically
// renames it over the artifact path. On any failure the previous artifact
// remains byte-identical; no partial file is ever visible at the final path.
func (s *synchronizer) fetchAndReplace(ctx context.Context, rc *runConfig) error {
	s.report(rc, Progress{Phase: PhaseDownloading})

	tmp, err := s.storage.tempFile()
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	n, err := s.endpoint.downloadTo(ctx, tmp, func(total int64) {
		s.report(rc, Progress{Phase: PhaseDownloading, BytesDownloaded: total})
	})
	closeErr := tmp.Close()
	if err != nil {
		s.storage.discard(tmpPath)
		return err
	}
	if closeErr != nil {
		s.storage.discard(tmpPath)
		return fmt.Errorf("%w: closing temp file: %v", ErrStorage, closeErr)
	}

	if err := s.storage.replaceArtifact(tmpPath); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("artifact replaced", "path", s.storage.artifactPath(), "bytes", n)
	}

	return nil
}

// resolveRunnable resolves the runnable artifact: loads the compiled cache
// when present (and not forced to recompile), otherwise compiles now.
// Returns the runnable and whether compilation ran. The compiled location is
// always the storage's compiled path; it is returned to callers on
// SyncResult rather than held as mutable state.
func (s *synchronizer) resolveRunnable(ctx context.Context, rc *runConfig) (Runnable, bool, error) {
	cachePath := s.storage.compiledPath()

	if !rc.forceCompile && s.storage.compiledExists() {
		runnable, err := s.compiler.Load(ctx, cachePath)
		if err != nil {
			return nil, false, err
		}
		if s.logger != nil {
			s.logger.Debug("loaded compiled cache", "path", cachePath)
		}
		return runnable, false, nil
	}

	s.report(rc, Progress{Phase: PhaseCompiling})

	runnable, err := s.compiler.Compile(ctx, s.storage.artifactPath(), cachePath)
	if err != nil {
		// The raw artifact stays as replaced; callers can retry just the
		// compile without re-downloading.
		return nil, true, err
	}

	return runnable, true, nil
}

// CheckUpdate compares the local artifact digest against the remote latest
// digest without modifying any local state.
func (s *synchronizer) CheckUpdate(ctx context.Context) (UpdateStatus, error) {
	remote, err := s.endpoint.fetchLatestDigest(ctx)
	if err != nil {
		return UpdateStatus{}, err
	}

	st := UpdateStatus{
		RemoteDigest: NormalizeDigest(remote.Digest),
		Status:       remote.Status,
	}

	exists, err := s.storage.artifactExists()
	if err != nil {
		return UpdateStatus{}, err
	}
	if !exists {
		st.ArtifactMissing = true
		return st, nil
	}

	local, err := s.storage.artifactDigest()
	if err != nil {
		return UpdateStatus{}, err
	}

	st.LocalDigest = local
	st.Current = DigestsEqual(local, remote.Digest)
	return st, nil
}

// LocalDigest returns the normalized content digest of the local artifact.
// Returns ErrNoArtifact if no artifact has been synchronized yet.
func (s *synchronizer) LocalDigest(ctx context.Context) (string, error) {
	exists, err := s.storage.artifactExists()
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrNoArtifact
	}
	return s.storage.artifactDigest()
}

// ArtifactPath returns the absolute path of the raw artifact file.
func (s *synchronizer) ArtifactPath() string {
	return s.storage.artifactPath()
}

// CompiledPath returns the absolute path of the compiled-artifact cache.
func (s *synchronizer) CompiledPath() string {
	return s.storage.compiledPath()
}

// InvalidateCompiled removes the compiled cache so the next Synchronize
// recompiles from the raw artifact.
func (s *synchronizer) InvalidateCompiled() error {
	return s.storage.removeCompiled()
}

// report delivers a progress notification if a callback is configured.
func (s *synchronizer) report(rc *runConfig, p Progress) {
	if rc.progressFn != nil {
		rc.progressFn(p)
	}
}
