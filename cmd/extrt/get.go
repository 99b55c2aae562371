package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extrt-io/extrt/internal/contractview"
)

func newGetCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <contract> <name>",
		Short: "Construct a named implementation and print its dynamic type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, app, args[0], args[1])
		},
	}
	return cmd
}

func runGet(cmd *cobra.Command, app *AppContext, contract, name string) error {
	ctx, logger := app.CommandContext(cmd, "command.get")

	v, err := contractview.Construct(contract, name)
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "construction failed", "contract", contract, "name", name, "error", err)
		}
		return newCommandError("get", fmt.Sprintf("constructing %s/%s", contract, name), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s/%s -> %T\n", contract, name, v)
	return nil
}
