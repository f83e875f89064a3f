package usecase

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase/rewrite"
)

// DiffFunc renders the difference between two versions of a file.
type DiffFunc func(path, before, after string) string

// MigrateOptions tune a single pass.
type MigrateOptions struct {
	// DryRun reports files that would change as pending and writes nothing.
	DryRun bool
	// Diff attaches a diff to every updated file. Dry runs always carry one.
	Diff bool
	// OnFile is called after each file is processed, in target order.
	OnFile func(domain.FileResult)
}

type MigrateFiles struct {
	sources  ports.SourceStore
	targets  ports.TargetResolver
	rewriter *rewrite.Rewriter
	store    ports.ArtifactStore
	diff     DiffFunc
	log      *slog.Logger
	now      func() time.Time
}

type MigrateOption func(*MigrateFiles)

// WithArtifactStore saves every run (dry runs included) to store.
func WithArtifactStore(store ports.ArtifactStore) MigrateOption {
	return func(uc *MigrateFiles) { uc.store = store }
}

func WithDiff(fn DiffFunc) MigrateOption {
	return func(uc *MigrateFiles) { uc.diff = fn }
}

func WithLogger(l *slog.Logger) MigrateOption {
	return func(uc *MigrateFiles) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithClock(now func() time.Time) MigrateOption {
	return func(uc *MigrateFiles) { uc.now = now }
}

func NewMigrateFiles(ss ports.SourceStore, tr ports.TargetResolver, rw *rewrite.Rewriter, opts ...MigrateOption) *MigrateFiles {
	uc := &MigrateFiles{
		sources:  ss,
		targets:  tr,
		rewriter: rw,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute rewrites the targets one by one. A missing file is reported and
// skipped; any other I/O error stops the batch and is returned together with
// the results gathered so far. Files already rewritten stay rewritten.
func (uc *MigrateFiles) Execute(ctx context.Context, root string, patterns []string, opts MigrateOptions) (domain.RunResult, error) {
	run := domain.RunResult{
		Root:      root,
		DryRun:    opts.DryRun,
		StartedAt: uc.now(),
	}

	paths, err := uc.targets.Resolve(root, patterns)
	if err != nil {
		run.EndedAt = uc.now()
		return run, err
	}
	run.Files = make([]domain.FileResult, 0, len(paths))

	uc.log.Info("migrate.start", "root", root, "targets", len(paths), "dry_run", opts.DryRun)

	var runErr error
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		res, err := uc.processFile(root, p, opts)
		run.Files = append(run.Files, res)
		if opts.OnFile != nil {
			opts.OnFile(res)
		}
		uc.log.Debug("migrate.file", "path", p, "status", res.Status, "replacements", res.Replacements(), "import_added", res.ImportAdded)

		if err != nil {
			uc.log.Error("migrate.file_failed", "path", p, "err", err)
			runErr = err
			break
		}
	}

	run.EndedAt = uc.now()

	if uc.store != nil {
		// Save failures are logged and do not fail the run.
		id, saveErr := uc.store.SaveRun(run)
		if saveErr != nil {
			uc.log.Warn("runstore.save_failed", "err", saveErr)
		} else {
			run.ID = id
			uc.log.Info("runstore.saved", "id", id)
		}
	}

	uc.log.Info("migrate.done",
		"updated", run.Count(domain.FileUpdated),
		"pending", run.Count(domain.FilePending),
		"unchanged", run.Count(domain.FileUnchanged),
		"not_found", run.Count(domain.FileNotFound),
		"failed", run.Count(domain.FileFailed),
	)

	return run, runErr
}

func (uc *MigrateFiles) processFile(root, path string, opts MigrateOptions) (domain.FileResult, error) {
	res := domain.FileResult{Path: path}
	abs := resolvePath(root, path)

	ok, err := uc.sources.Exists(abs)
	if err != nil {
		return failed(res, err)
	}
	if !ok {
		res.Status = domain.FileNotFound
		return res, nil
	}

	before, err := uc.sources.Read(abs)
	if err != nil {
		return failed(res, err)
	}

	out := uc.rewriter.Apply(before)
	res.Hits = out.Hits
	res.ImportAdded = out.ImportAdded
	res.Residual = out.Residual
	if out.Residual > 0 {
		uc.log.Warn("migrate.residual", "path", path, "count", out.Residual)
	}

	if !out.Changed {
		res.Status = domain.FileUnchanged
		return res, nil
	}

	if (opts.DryRun || opts.Diff) && uc.diff != nil {
		res.Diff = uc.diff(path, before, out.Content)
	}

	if opts.DryRun {
		res.Status = domain.FilePending
		return res, nil
	}

	if err := uc.sources.Write(abs, out.Content); err != nil {
		return failed(res, err)
	}
	res.Status = domain.FileUpdated
	return res, nil
}

func failed(res domain.FileResult, err error) (domain.FileResult, error) {
	res.Status = domain.FileFailed
	res.Error = err.Error()
	res.Hits = nil
	res.ImportAdded = false
	res.Diff = ""
	res.Residual = 0
	return res, err
}

func resolvePath(root, p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
