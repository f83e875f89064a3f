package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase/query"
)

func runsCmd(g *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Browse saved run artifacts",
	}

	c.AddCommand(runsListCmd(g), runsShowCmd(g))
	return c
}

func runsListCmd(g *globalOpts) *cobra.Command {
	var workspace string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			refs, err := ws.store.ListRuns()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no runs saved)")
				return nil
			}
			if limit > 0 && len(refs) > limit {
				refs = refs[:limit]
			}

			for _, r := range refs {
				kind := "run"
				if r.DryRun {
					kind = "dry-run"
				}
				fmt.Fprintf(out, "- %s  %-7s  %d updated  (%s)\n",
					r.ID, kind, r.Updated, r.StartedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n runs")
	return cmd
}

func runsShowCmd(g *globalOpts) *cobra.Command {
	var workspace string
	var expr string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved run, or the part selected by a JSONPath query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			run, raw, err := ws.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if expr == "" {
				p := newPalette(out)
				for _, f := range run.Files {
					fmt.Fprintln(out, statusLine(p, f))
					for _, l := range fileDetail(p, f) {
						fmt.Fprintln(out, l)
					}
				}
				printSummary(out, run)
				return nil
			}

			v, err := query.Select(raw, expr)
			if err != nil {
				return err
			}
			if v == nil {
				return &domain.OpError{Op: "cli.runs.show", Kind: domain.KindNotFound, Path: expr, Err: domain.ErrNotFound}
			}
			s, err := query.Format(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&expr, "query", "q", "", "JSONPath expression, e.g. $.files[?(@.status==\"updated\")].path")
	return cmd
}
