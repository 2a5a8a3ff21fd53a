// Package paths provides best-effort path canonicalization for matching
// oracle-reported file paths against documents in the solution graph.
package paths

import (
	"os"
	"path/filepath"
)

// Canonicalize converts a path to an absolute, symlink-resolved, cleaned form.
// Normalization is best-effort: if any step fails the input is returned
// unchanged, since a normalization failure is not actionable for the caller.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file may not exist yet; fall back to the absolute path.
		if os.IsNotExist(err) {
			return filepath.Clean(abs)
		}
		return path
	}

	return filepath.Clean(resolved)
}

// SamePath reports whether two paths refer to the same file after
// canonicalization.
func SamePath(a, b string) bool {
	return Canonicalize(a) == Canonicalize(b)
}

// ToSlash normalizes a path to forward slashes for index-relative comparison.
func ToSlash(path string) string {
	return filepath.ToSlash(path)
}
