package modelsync

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// The change-detection digest is MD5, matching the format published by the
// digest endpoint. Collision resistance is not a requirement here; the digest
// only detects whether the remote artifact differs from the local copy.

// ComputeDigest reads r to EOF and returns the content digest as lowercase
// hex without an algorithm prefix.
func ComputeDigest(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("computing digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// fileDigest computes the digest of the file at path.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening artifact for digest: %v", ErrStorage, err)
	}
	defer f.Close()
	return ComputeDigest(f)
}

// NormalizeDigest canonicalizes a digest string for comparison: lowercases it
// and strips a leading algorithm identifier such as "md5:" or "sha256:".
// Digest strings from different sources do not share framing; the remote
// service may include a prefix that locally computed digests never carry.
func NormalizeDigest(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}

// DigestsEqual reports whether two digest strings identify the same content
// once both are normalized. Empty digests never compare equal.
func DigestsEqual(a, b string) bool {
	na, nb := NormalizeDigest(a), NormalizeDigest(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}
