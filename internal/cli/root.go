package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type globalOpts struct {
	debug bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOpts{}

	cmd := &cobra.Command{
		Use:   "apiurlfix",
		Short: "apiurlfix: rewrite hardcoded backend URLs into API helper calls",
		Long: "apiurlfix rewrites hardcoded backend URL literals in frontend sources into calls\n" +
			"to a shared URL helper and adds the helper import where needed.\n\n" +
			"Without a subcommand it opens an interactive review when attached to a terminal.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), g)
		},
	}

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .apiurlfix/logs/apiurlfix.log")

	cmd.AddCommand(
		runCmd(g),
		checkCmd(g),
		targetsCmd(g),
		runsCmd(g),
		initCmd(),
		watchCmd(g),
		versionCmd(),
	)
	return cmd
}
