package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
	"github.com/Bnei-Baruch/apiurlfix/internal/usecase"
)

func runCmd(g *globalOpts) *cobra.Command {
	var workspace string
	var dryRun bool
	var showDiff bool
	var noSave bool
	var verbose bool
	var format string

	c := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Rewrite hardcoded backend URLs in the target files",
		Long: "Rewrite hardcoded backend URLs in the target files.\n\n" +
			"Paths given as arguments replace the configured targets. Glob patterns are expanded\n" +
			"relative to the workspace root.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace, g)
			if err != nil {
				return err
			}
			defer ws.close()

			if format == "" {
				format = ws.cfg.Defaults.Format
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := usecase.MigrateOptions{DryRun: dryRun, Diff: showDiff}
			if format != "json" {
				opts.OnFile = fileLineWriter(out, newPalette(out), verbose, showDiff || dryRun)
			}

			uc := ws.migrator(!noSave)
			run, err := uc.Execute(cmd.Context(), ws.root, ws.targets(args), opts)
			if perr := printRun(out, run, format); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
	c.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff for every rewritten file")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save run artifact under .apiurlfix/runs/")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-rule replacement counts")
	c.Flags().StringVar(&format, "format", "", "Output format: pretty|json (default from config)")
	return c
}

// printRun writes the closing report. Status lines are streamed by the
// OnFile callback in pretty mode, so only the summary remains.
func printRun(w io.Writer, run domain.RunResult, format string) error {
	switch format {
	case "json":
		return printJSON(w, run)
	case "pretty", "":
		printSummary(w, run)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}
