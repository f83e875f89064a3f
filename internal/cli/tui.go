package cli

import (
	"context"

	"github.com/Bnei-Baruch/apiurlfix/internal/infra/fsworkspace"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/logger"
	"github.com/Bnei-Baruch/apiurlfix/internal/ui/tui"
)

func runTUI(_ context.Context, g *globalOpts) error {
	ws, err := loadWorkspace("", g)
	if err != nil {
		return err
	}
	defer ws.close()

	return tui.Run(tui.Deps{
		Root:                 ws.root,
		Targets:              ws.cfg.Targets,
		Configured:           ws.configured,
		Planner:              ws.migrator(false),
		Applier:              ws.migrator(true),
		WorkspaceInitializer: fsworkspace.NewInitializer(),
		Logger:               logger.L(),
		Debug:                g.debug,
	})
}
