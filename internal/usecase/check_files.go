package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

type CheckFiles struct {
	migrate *MigrateFiles
}

// NewCheckFiles wraps a migration without an artifact store; checks are not recorded.
func NewCheckFiles(m *MigrateFiles) *CheckFiles {
	cp := *m
	cp.store = nil
	return &CheckFiles{migrate: &cp}
}

// Execute performs a dry run. It fails with ErrPendingChanges when a rewrite
// is still due and with ErrResidualURLs when a base URL is left in a shape the
// rules cannot rewrite.
func (uc *CheckFiles) Execute(ctx context.Context, root string, patterns []string, onFile func(domain.FileResult)) (domain.RunResult, error) {
	run, err := uc.migrate.Execute(ctx, root, patterns, MigrateOptions{DryRun: true, OnFile: onFile})
	if err != nil {
		return run, err
	}

	var errs []error
	if n := run.Count(domain.FilePending); n > 0 {
		errs = append(errs, fmt.Errorf("%d file(s) still need rewriting: %w", n, domain.ErrPendingChanges))
	}
	if n := run.ResidualFiles(); n > 0 {
		errs = append(errs, fmt.Errorf("%d file(s) hold hardcoded urls that need a manual edit: %w", n, domain.ErrResidualURLs))
	}
	return run, errors.Join(errs...)
}
