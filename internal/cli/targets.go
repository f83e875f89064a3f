package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bnei-Baruch/apiurlfix/internal/infra/fsstore"
)

func targetsCmd(g *globalOpts) *cobra.Command {
	c := &cobra.Command{
		Use:   "targets",
		Short: "Inspect the files a run would touch",
	}

	c.AddCommand(targetsListCmd(g))
	return c
}

func targetsListCmd(g *globalOpts) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resolved target files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			paths, err := ws.resolver.Resolve(ws.root, ws.cfg.Targets)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(paths) == 0 {
				fmt.Fprintln(out, "(no targets configured)")
				return nil
			}

			source := "defaults"
			if ws.configured {
				source = "apiurlfix.yaml"
			}
			fmt.Fprintf(out, "Workspace: %s\n", ws.root)
			fmt.Fprintf(out, "Targets:   %d (%s)\n\n", len(paths), source)

			for _, p := range paths {
				mark := "✓"
				if !fileExists(fsstore.Join(ws.root, p)) {
					mark = "✗"
				}
				fmt.Fprintf(out, "%s %s\n", mark, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
