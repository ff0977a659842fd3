package modelsync

import (
	"fmt"
	"strings"
)

// DefaultArtifactName is the artifact file name used when Config.ArtifactName
// is empty.
const DefaultArtifactName = "model.bin"

// Config configures a Synchronizer. It is immutable for the lifetime of the
// Synchronizer constructed from it.
type Config struct {
	// AppName determines the storage directory name and the environment
	// variable prefix. Example: "xprim" → ~/.local/share/xprim/sync/ on
	// Linux, overridable via XPRIM_SYNC_DIR.
	AppName string

	// BaseURL is the base URL of the artifact service. When set, the digest
	// and download endpoints derive from it as BaseURL/latest and
	// BaseURL/download. Ignored if DigestURL and DownloadURL are both set.
	BaseURL string

	// DigestURL is the digest-lookup endpoint. Overrides BaseURL derivation.
	DigestURL string

	// DownloadURL is the artifact download endpoint. Overrides BaseURL
	// derivation.
	DownloadURL string

	// Token is the bearer token sent on every request to both endpoints.
	Token string

	// DataDir overrides the default data directory.
	// If empty, uses the platform-appropriate default.
	// Can also be set via environment variable: <APPNAME>_SYNC_DIR
	DataDir string

	// ArtifactName is the file name of the local artifact.
	// Defaults to DefaultArtifactName.
	ArtifactName string

	// CachePolicy governs reuse of the compiled-artifact cache.
	// Defaults to RecompileAfterDownload.
	CachePolicy CachePolicy
}

// digestURL returns the effective digest endpoint.
func (c Config) digestURL() string {
	if c.DigestURL != "" {
		return c.DigestURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/latest"
}

// downloadURL returns the effective download endpoint.
func (c Config) downloadURL() string {
	if c.DownloadURL != "" {
		return c.DownloadURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/download"
}

// artifactName returns the effective artifact file name.
func (c Config) artifactName() string {
	if c.ArtifactName != "" {
		return c.ArtifactName
	}
	return DefaultArtifactName
}

// CachePolicy controls when the compiled-artifact cache is trusted.
type CachePolicy int

const (
	// RecompileAfterDownload removes the compiled cache whenever the raw
	// artifact is replaced, so a runnable artifact is never derived from an
	// older artifact version than the one on disk. This is the default.
	RecompileAfterDownload CachePolicy = iota

	// ReuseCompiled trusts the compiled cache whenever it exists, even right
	// after the raw artifact was replaced (compile-once semantics). Callers
	// choosing this own the staleness risk.
	ReuseCompiled
)

// String returns the canonical name of the policy.
func (p CachePolicy) String() string {
	switch p {
	case RecompileAfterDownload:
		return "recompile-after-download"
	case ReuseCompiled:
		return "reuse-compiled"
	default:
		return fmt.Sprintf("CachePolicy(%d)", int(p))
	}
}

// ParseCachePolicy parses a policy name as it appears in config files.
// Returns ErrInvalidConfig for unrecognized names.
func ParseCachePolicy(s string) (CachePolicy, error) {
	switch s {
	case "", "recompile-after-download":
		return RecompileAfterDownload, nil
	case "reuse-compiled":
		return ReuseCompiled, nil
	default:
		return 0, fmt.Errorf("%w: unknown cache policy %q", ErrInvalidConfig, s)
	}
}

// DigestRecord is the digest endpoint's response for the latest published
// artifact. Only Digest participates in the synchronization decision; Status
// is informational.
type DigestRecord struct {
	// Digest is the content digest of the latest artifact. The format may
	// carry an algorithm prefix (e.g. "md5:...") and arbitrary case; compare
	// with DigestsEqual rather than directly.
	Digest string `json:"digest"`

	// Status is the publication status reported by the service.
	Status string `json:"status"`
}

// Runnable is the platform-loaded representation of the artifact, produced by
// a Compiler. Its concrete type is compiler-specific.
type Runnable any

// SyncResult reports the outcome of one Synchronize call.
type SyncResult struct {
	// Runnable is the loaded runnable artifact.
	Runnable Runnable

	// Updated reports whether the local artifact was replaced.
	Updated bool

	// Compiled reports whether the compiler ran during this call (as opposed
	// to the compiled cache being loaded).
	Compiled bool

	// Digest is the normalized content digest of the local artifact after
	// synchronization.
	Digest string

	// ArtifactPath is the absolute path of the raw artifact file.
	ArtifactPath string

	// CompiledPath is the absolute path of the compiled-artifact cache.
	CompiledPath string
}

// UpdateStatus reports a side-effect-free comparison of the local artifact
// against the remote latest digest.
type UpdateStatus struct {
	// LocalDigest is the normalized digest of the local artifact. Empty if
	// the artifact is missing.
	LocalDigest string `json:"local_digest"`

	// RemoteDigest is the normalized digest reported by the digest endpoint.
	RemoteDigest string `json:"remote_digest"`

	// Status is the informational status field from the digest endpoint.
	Status string `json:"status,omitempty"`

	// Current reports whether the local artifact matches the remote digest.
	Current bool `json:"current"`

	// ArtifactMissing reports whether no local artifact exists.
	ArtifactMissing bool `json:"artifact_missing"`
}

// Progress reports phase transitions and download progress during a
// Synchronize call.
type Progress struct {
	// Phase is one of PhaseChecking, PhaseDownloading, PhaseCompiling, or
	// PhaseUpToDate.
	Phase string

	// BytesDownloaded is the bytes received so far. Only meaningful during
	// PhaseDownloading.
	BytesDownloaded int64
}

// Progress phases, in the order they can occur within one call.
const (
	PhaseChecking    = "checking"
	PhaseDownloading = "downloading"
	PhaseCompiling   = "compiling"
	PhaseUpToDate    = "up-to-date"
)
