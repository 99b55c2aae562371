package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/extrt-io/extrt/internal/contractview"
)

type listOptions struct {
	jsonOutput bool
}

func newListCmd(app *AppContext) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list [contract]",
		Short: "List every declared contract, or one contract's registered names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runListOne(cmd, app, opts, args[0])
			}
			return runListAll(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runListAll(cmd *cobra.Command, app *AppContext, opts *listOptions) error {
	ctx, logger := app.CommandContext(cmd, "command.list")

	summaries, err := contractview.All()
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "failed to summarize contracts", "error", err)
		}
		return newCommandError("list", "summarizing declared contracts", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No contracts declared yet.")
		fmt.Fprintln(cmd.OutOrStdout(), "\nBlank-import a package that calls extrt.Declare from its own init().")
		return nil
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	return renderListTable(cmd, summaries)
}

func runListOne(cmd *cobra.Command, app *AppContext, opts *listOptions, contract string) error {
	ctx, logger := app.CommandContext(cmd, "command.list")

	summary, ok, err := contractview.Find(contract)
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "failed to summarize contract", "contract", contract, "error", err)
		}
		return newCommandError("list", "summarizing "+contract, err)
	}
	if !ok {
		return newCommandError("list", "summarizing "+contract, fmt.Errorf("no declared contract named %s", contract))
	}

	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	return renderListTable(cmd, []contractview.Summary{summary})
}

func renderListTable(cmd *cobra.Command, summaries []contractview.Summary) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CONTRACT\tDEFAULT\tNAMES\tWRAPPERS\tADAPTIVE")

	for _, s := range summaries {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%v\n",
			s.Contract,
			valueOrFallback(s.DefaultName, "(none)"),
			strings.Join(s.Names, ","),
			strings.Join(s.Wrappers, ","),
			s.HasAdaptive,
		)
	}

	return writer.Flush()
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
