package fsstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
)

// skipDirs are never descended into when expanding patterns.
var skipDirs = map[string]bool{
	".git":         true,
	".next":        true,
	".apiurlfix":   true,
	"node_modules": true,
}

// Resolver expands target entries relative to a workspace root. Entries naming an
// existing file are taken literally (Next.js routes such as "[id]" look like globs),
// other entries with glob syntax are matched against the tree ("**" crosses
// directories). Entries that match nothing are kept so they get reported as missing.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

var _ ports.TargetResolver = (*Resolver)(nil)

func (r *Resolver) Resolve(root string, patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, raw := range patterns {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		rel := filepath.ToSlash(filepath.Clean(entry))

		if isFile(join(root, rel)) || !hasMeta(rel) {
			add(rel)
			continue
		}

		matches, err := r.expand(root, rel)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			add(rel)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

func (r *Resolver) expand(root, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, &domain.OpError{
			Op:   "fsstore.resolve",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("target %q: %w: %w", pattern, err, domain.ErrInvalidConfig),
		}
	}

	var out []string
	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if g.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, &domain.OpError{
			Op:   "fsstore.resolve",
			Kind: domain.KindIO,
			Path: root,
			Err:  walkErr,
		}
	}
	return out, nil
}

// Join resolves a target path against the workspace root.
func Join(root, p string) string {
	return join(root, p)
}

func join(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
