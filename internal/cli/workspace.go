package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/fsstore"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/logger"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/runstore"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/textdiff"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/workspacefinder"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase/rewrite"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config
	// configured is false when no apiurlfix.yaml exists and defaults are in use.
	configured bool

	sources  ports.SourceStore
	resolver ports.TargetResolver
	rewriter *rewrite.Rewriter
	store    ports.ArtifactStore

	closeLog func() error
}

func (ws *workspaceCtx) close() {
	if ws != nil && ws.closeLog != nil {
		_ = ws.closeLog()
	}
}

// migrator builds the migration use case. Runs are saved only when asked and
// only in configured workspaces, so a bare run leaves no state behind.
func (ws *workspaceCtx) migrator(save bool) *usecase.MigrateFiles {
	opts := []usecase.MigrateOption{
		usecase.WithDiff(textdiff.Unified),
		usecase.WithLogger(logger.L()),
	}
	if save && ws.configured {
		opts = append(opts, usecase.WithArtifactStore(ws.store))
	}
	return usecase.NewMigrateFiles(ws.sources, ws.resolver, ws.rewriter, opts...)
}

// targets returns the CLI arguments when given, the configured targets otherwise.
func (ws *workspaceCtx) targets(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return ws.cfg.Targets
}

func loadWorkspace(workspaceFlag string, g *globalOpts) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	configured := true
	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		configured = false
	}

	rw, err := rewrite.NewRewriter(cfg.Rewrite, cfg.Import)
	if err != nil {
		return nil, err
	}

	ws := &workspaceCtx{
		root:       root,
		cfg:        cfg,
		configured: configured,
		sources:    fsstore.NewStore(),
		resolver:   fsstore.NewResolver(),
		rewriter:   rw,
		store:      runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
	}

	if configured {
		debug := g != nil && g.debug
		cleanup, _ := logger.Setup(logger.Config{Root: root, Dir: cfg.Paths.LogsDir, Debug: debug})
		ws.closeLog = cleanup
		logger.L().Debug("workspace.loaded", "root", root, "targets", len(cfg.Targets))
	}

	return ws, nil
}

// resolveWorkspaceRoot uses the flag when set, otherwise the nearest directory
// holding apiurlfix.yaml, otherwise the working directory.
func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", &domain.OpError{Op: "cli.workspace", Kind: domain.KindNotFound, Path: abs, Err: domain.ErrNotFound}
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		return wd, nil
	}
	return root, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
