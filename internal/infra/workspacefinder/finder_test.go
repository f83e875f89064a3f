package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func TestFindRoot_FindsWorkspaceFromNestedDir(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Create apiurlfix.yaml at root
	if err := os.WriteFile(filepath.Join(root, "apiurlfix.yaml"), []byte("apiurlfix: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	f := NewFinder()
	got, err := f.FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot returned error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	tmp := t.TempDir()
	_ = os.MkdirAll(filepath.Join(tmp, "a", "b"), 0o755)

	f := NewFinder()
	_, err := f.FindRoot(filepath.Join(tmp, "a", "b"))
	if err == nil {
		t.Fatalf("expected error")
	}

	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got: %v", err)
	}
}

func TestFindRoot_StopsAtRepositoryBoundary(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ConfigFile), []byte("apiurlfix: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	inner := filepath.Join(tmp, "vendor", "frontend")
	if err := os.MkdirAll(filepath.Join(inner, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nested := filepath.Join(inner, "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := NewFinder().FindRoot(nested)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound at the inner checkout, got: %v", err)
	}

	got, err := (&Finder{ConfigFile: ConfigFile}).FindRoot(nested)
	if err != nil {
		t.Fatalf("FindRoot without boundary: %v", err)
	}
	if got != tmp {
		t.Fatalf("expected root=%s, got=%s", tmp, got)
	}
}

func TestFindRoot_AcceptsFilePath(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("apiurlfix: {}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	page := filepath.Join(root, "page.tsx")
	if err := os.WriteFile(page, []byte("'use client'\n"), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	got, err := NewFinder().FindRoot(page)
	if err != nil {
		t.Fatalf("FindRoot error: %v", err)
	}
	if got != root {
		t.Fatalf("expected root=%s, got=%s", root, got)
	}
}
