// Package common holds small helpers shared by the generator packages.
package common

import (
	"path/filepath"
	"strings"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// FileStem returns the base name of path with every extension removed
// ("src/ops/vec.ops.rs" -> "vec"). Returns empty string if path is empty.
func FileStem(path string) string {
	if path == "" {
		return ""
	}

	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}

	return base
}

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}
