package modelsync

import (
	"context"
	"fmt"
	"os"
)

// Compiler turns the raw artifact file into a loaded runnable artifact.
// Implementations wrap a platform ML runtime; the synchronizer treats
// compilation as opaque.
//
// Compile may persist a platform-specific compiled representation at
// cachePath so later calls can skip recompilation via Load. Implementations
// that have no cacheable form simply never create cachePath.
type Compiler interface {
	// Compile produces a runnable artifact from the raw file at
	// artifactPath, optionally persisting a compiled representation at
	// cachePath. Errors should wrap ErrCompile.
	Compile(ctx context.Context, artifactPath, cachePath string) (Runnable, error)

	// Load loads a previously compiled representation from cachePath.
	// Errors should wrap ErrCompile; the synchronizer does not fall back to
	// Compile on a Load failure, so a corrupt cache must be pruned by the
	// caller (see Synchronizer.InvalidateCompiled).
	Load(ctx context.Context, cachePath string) (Runnable, error)
}

// RawArtifact is the Runnable produced by RawCompiler: a handle to the raw
// artifact file itself.
type RawArtifact struct {
	// Path is the location of the raw artifact file.
	Path string

	// Size is the artifact size in bytes.
	Size int64
}

// RawCompiler is the default Compiler. It performs no platform compilation:
// the "runnable" artifact is the raw file itself, and no compiled cache is
// ever written. Use WithCompiler to plug in a real platform runtime.
type RawCompiler struct{}

// Ensure RawCompiler implements Compiler.
var _ Compiler = RawCompiler{}

// Compile validates that the raw artifact is readable and returns a
// RawArtifact handle. cachePath is not written.
func (RawCompiler) Compile(ctx context.Context, artifactPath, cachePath string) (Runnable, error) {
	info, err := os.Stat(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("%w: artifact not readable: %v", ErrCompile, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: artifact is empty", ErrCompile)
	}
	return &RawArtifact{Path: artifactPath, Size: info.Size()}, nil
}

// Load is never reached for RawCompiler since Compile writes no cache, but
// it honors the contract for completeness.
func (RawCompiler) Load(ctx context.Context, cachePath string) (Runnable, error) {
	info, err := os.Stat(cachePath)
	if err != nil {
		return nil, fmt.Errorf("%w: compiled cache not readable: %v", ErrCompile, err)
	}
	return &RawArtifact{Path: cachePath, Size: info.Size()}, nil
}
