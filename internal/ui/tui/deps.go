package tui

import (
	"context"
	"log/slog"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/ports"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
)

// Migrator is satisfied by *usecase.MigrateFiles.
type Migrator interface {
	Execute(ctx context.Context, root string, patterns []string, opts usecase.MigrateOptions) (domain.RunResult, error)
}

type Deps struct {
	Root       string
	Targets    []string
	Configured bool

	// Planner computes dry runs and should not record them.
	Planner Migrator
	// Applier writes files and may save the run.
	Applier Migrator

	WorkspaceInitializer ports.WorkspaceInitializer

	Logger *slog.Logger
	Debug  bool
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
