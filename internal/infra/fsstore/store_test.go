package fsstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func TestStore_ExistsAndRead(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "page.tsx")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewStore()

	ok, err := s.Exists(p)
	if err != nil || !ok {
		t.Fatalf("expected exists, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Exists(filepath.Join(tmp, "missing.tsx"))
	if err != nil || ok {
		t.Fatalf("expected missing, got ok=%v err=%v", ok, err)
	}

	got, err := s.Read(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestStore_ReadMissingIsNotFound(t *testing.T) {
	_, err := NewStore().Read(filepath.Join(t.TempDir(), "nope.tsx"))
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestStore_WriteReplacesAndKeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes differ on windows")
	}
	tmp := t.TempDir()
	p := filepath.Join(tmp, "page.tsx")
	if err := os.WriteFile(p, []byte("old"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chmod(p, 0o640); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if err := NewStore().Write(p, "new"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "new" {
		t.Fatalf("unexpected content %q", b)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected mode 0640, got %v", info.Mode().Perm())
	}
	if _, err := os.Stat(p + ".apiurlfix.tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be gone, stat err=%v", err)
	}
}

func TestStore_WriteIntoMissingDirFails(t *testing.T) {
	err := NewStore().Write(filepath.Join(t.TempDir(), "no", "such", "dir.tsx"), "x")
	if !domain.IsKind(err, domain.KindIO) {
		t.Fatalf("expected KindIO, got %v", err)
	}
}

func TestStore_WriteThroughSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	tmp := t.TempDir()
	target := filepath.Join(tmp, "shared", "page.tsx")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(tmp, "page.tsx")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	if err := NewStore().Write(link, "new"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatalf("lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected %s to stay a symlink, mode=%v", link, info.Mode())
	}
	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "new" {
		t.Fatalf("expected link target rewritten, got %q", b)
	}
}
