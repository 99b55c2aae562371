package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "extrt",
		Short:         "Browse and probe the extension runtime's declared capability contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runDashboard(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newGetCmd(app))
	cmd.AddCommand(newAdaptiveCmd(app))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDashboardCmd(app))

	return cmd
}
