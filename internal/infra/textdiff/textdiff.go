// Package textdiff renders unified diffs for dry runs and --diff output.
package textdiff

import (
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"
)

// Unified returns a unified diff of before/after labelled with path, or "" when equal.
func Unified(path, before, after string) string {
	if before == after {
		return ""
	}
	p := filepath.ToSlash(path)
	return udiff.Unified("a/"+p, "b/"+p, before, after)
}
