package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
)

const opTimeout = 2 * time.Minute

func cmdPlan(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.Planner == nil {
			return planLoadedMsg{err: errors.New("planner is nil")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		run, err := deps.Planner.Execute(ctx, deps.Root, deps.Targets, usecase.MigrateOptions{DryRun: true})
		if err != nil {
			deps.logger().Error("tui.plan.failed", "err", err)
		}
		return planLoadedMsg{run: run, err: err}
	}
}

func cmdApply(deps Deps, paths []string) tea.Cmd {
	return func() tea.Msg {
		if deps.Applier == nil {
			return applyDoneMsg{err: errors.New("applier is nil")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		log := deps.logger()
		log.Info("tui.apply.start", "root", deps.Root, "files", len(paths))

		run, err := deps.Applier.Execute(ctx, deps.Root, paths, usecase.MigrateOptions{})
		if err != nil {
			log.Error("tui.apply.failed", "err", err, "run_id", run.ID)
		} else {
			log.Info("tui.apply.ok", "run_id", run.ID, "updated", run.Count(domain.FileUpdated))
		}
		return applyDoneMsg{run: run, err: err}
	}
}

func cmdInitWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: deps.Root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: deps.Root}, false)
		return initWorkspaceDoneMsg{root: deps.Root, err: err}
	}
}
