package fsstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
)

// Store is the filesystem SourceStore.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

var _ ports.SourceStore = (*Store)(nil)

func (s *Store) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &domain.OpError{
		Op:   "fsstore.stat",
		Kind: domain.KindIO,
		Path: path,
		Err:  err,
	}
}

func (s *Store) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return "", &domain.OpError{
			Op:   "fsstore.read",
			Kind: kind,
			Path: path,
			Err:  err,
		}
	}
	return string(b), nil
}

// Write replaces path with content: tmp file next to it, then rename. The
// original file mode is kept. A symlinked path is replaced at its target so the
// link survives.
func (s *Store) Write(path string, content string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &domain.OpError{
			Op:   "fsstore.resolve",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := path + ".apiurlfix.tmp"
	if err := os.WriteFile(tmp, []byte(content), mode); err != nil {
		return &domain.OpError{
			Op:   "fsstore.write",
			Kind: domain.KindIO,
			Path: tmp,
			Err:  err,
		}
	}
	// WriteFile honours umask; restore the exact mode.
	_ = os.Chmod(tmp, mode)

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "fsstore.rename",
			Kind: domain.KindIO,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
