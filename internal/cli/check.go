package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
)

func checkCmd(g *globalOpts) *cobra.Command {
	var workspace string
	var quiet bool

	c := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Fail when any target needs rewriting or still holds a hardcoded backend URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			out := cmd.OutOrStdout()
			p := newPalette(out)

			onFile := func(r domain.FileResult) {
				if quiet && r.Status != domain.FilePending && r.Residual == 0 {
					return
				}
				fmt.Fprintln(out, statusLine(p, r))
				if l := residualLine(p, r); l != "" {
					fmt.Fprintln(out, l)
				}
			}

			uc := usecase.NewCheckFiles(ws.migrator(false))
			run, err := uc.Execute(cmd.Context(), ws.root, ws.targets(args), onFile)
			pending := errors.Is(err, domain.ErrPendingChanges)
			residual := errors.Is(err, domain.ErrResidualURLs)
			if pending || residual {
				fmt.Fprintln(out)
				if pending {
					fmt.Fprintf(out, "%d file(s) need rewriting; run `apiurlfix run`.\n", run.Count(domain.FilePending))
				}
				if residual {
					fmt.Fprintf(out, "%d file(s) hold hardcoded URLs the rewrite rules do not cover; edit them by hand.\n", run.ResidualFiles())
				}
				return err
			}
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintln(out, "\nOK: no hardcoded backend URLs found.")
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print files that need rewriting")
	return c
}
