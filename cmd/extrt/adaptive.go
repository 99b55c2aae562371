package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extrt-io/extrt/internal/contractview"
	"github.com/extrt-io/extrt/internal/urlbag"
)

func newAdaptiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adaptive <contract> <url>",
		Short: "Dispatch every adaptive operation of a contract against a Parameter Bag URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdaptive(cmd, app, args[0], args[1])
		},
	}
	return cmd
}

func runAdaptive(cmd *cobra.Command, app *AppContext, contract, rawURL string) error {
	ctx, logger := app.CommandContext(cmd, "command.adaptive")

	bag, err := urlbag.Parse(rawURL)
	if err != nil {
		return newCommandError("adaptive", "parsing url "+rawURL, err)
	}

	results, err := contractview.InvokeAdaptive(contract, bag)
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "adaptive dispatch failed", "contract", contract, "url", rawURL, "error", err)
		}
		return newCommandError("adaptive", fmt.Sprintf("dispatching %s against %s", contract, rawURL), err)
	}

	for method, result := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s.%s(%s) -> %s\n", contract, method, rawURL, result)
	}
	return nil
}
