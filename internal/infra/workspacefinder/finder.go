package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
)

const opFindRoot = "workspacefinder.findroot"

// Finder walks up from a directory looking for the workspace config. The
// walk ends at the first directory holding Boundary, so a checkout nested
// in another project never picks up the outer project's config.
type Finder struct {
	ConfigFile string // defaults to "apiurlfix.yaml"
	Boundary   string // defaults to ".git"; empty walks to the filesystem root
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile, Boundary: ".git"}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindInvalidConfig, Err: errors.New("startDir is empty")}
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindIO, Path: startDir, Err: err}
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := filepath.Clean(abs); ; {
		if exists(filepath.Join(dir, f.ConfigFile)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || (f.Boundary != "" && exists(filepath.Join(dir, f.Boundary))) {
			return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindNotFound, Path: abs, Err: domain.ErrNotFound}
		}
		dir = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
