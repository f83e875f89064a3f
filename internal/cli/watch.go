package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/logger"
	"github.com/Bnei-Baruch/apiurlfix/internal/infra/watcher"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
)

func watchCmd(g *globalOpts) *cobra.Command {
	var workspace string
	var debounce time.Duration

	c := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rewrite target files again whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			p := newPalette(out)
			uc := ws.migrator(false)

			paths, err := ws.resolver.Resolve(ws.root, ws.targets(args))
			if err != nil {
				return err
			}

			// Bring everything up to date once before waiting for edits.
			if _, err := uc.Execute(ctx, ws.root, paths, usecase.MigrateOptions{OnFile: quietLines(out, p)}); err != nil {
				return err
			}

			fmt.Fprintf(out, "Watching %d file(s) under %s (Ctrl+C to stop)\n", len(paths), ws.root)

			w := watcher.New(watcher.WithDebounce(debounce), watcher.WithLogger(logger.L()))
			return w.Run(ctx, ws.root, paths, func(changed []string) {
				_, err := uc.Execute(ctx, ws.root, changed, usecase.MigrateOptions{OnFile: quietLines(out, p)})
				if err != nil && ctx.Err() == nil {
					fmt.Fprintf(out, "error: %v\n", err)
				}
			})
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before reprocessing changed files")
	return c
}

// quietLines only reports files that were actually touched or broken.
func quietLines(out io.Writer, p palette) func(domain.FileResult) {
	return func(r domain.FileResult) {
		if r.Status == domain.FileUnchanged {
			return
		}
		fmt.Fprintln(out, statusLine(p, r))
	}
}
