// Package modelsync keeps a single versioned ML model artifact in sync with
// a remote publishing service.
//
// The remote contract is two authenticated HTTP endpoints: a digest-lookup
// endpoint returning the content digest of the latest published artifact, and
// a download endpoint streaming the artifact's raw bytes. A Synchronizer
// compares the local copy's digest against the remote one and atomically
// replaces the local file only when they differ, then resolves a runnable
// (platform-compiled) representation of the artifact.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Synchronizer interface - Applications call
//     NewSynchronizer and then Synchronize to obtain an up-to-date runnable
//     artifact.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach a complete
//     "sync" subcommand tree to their Cobra root command, providing commands
//     like "mytool sync run", "mytool sync check", etc.
//
// # Single-Writer Invariant
//
// At most one replacement of the artifact file may be in flight per local
// path. Synchronizer enforces this with an in-process mutex and a
// cross-process advisory lock next to the artifact file; a contended lock
// surfaces as ErrBusy rather than risking interleaved reads and writes.
//
// # Atomic Replacement
//
// Downloads are streamed to a temporary file in the artifact's directory and
// renamed into place. A failure at any point leaves the previous artifact
// byte-identical; a partial file is never visible at the artifact path.
//
// # Storage
//
// The artifact lives in a platform-appropriate directory:
//   - Linux: $XDG_DATA_HOME/<app>/sync/ or ~/.local/share/<app>/sync/
//   - macOS: ~/Library/Application Support/<app>/sync/
//   - Windows: %APPDATA%\<app>\sync\
//
// The location can be overridden via Config.DataDir or the
// <APPNAME>_SYNC_DIR environment variable.
package modelsync
