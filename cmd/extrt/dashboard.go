package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/extrt-io/extrt/internal/contractview"
	"github.com/extrt-io/extrt/internal/tui/dashboard"
)

func newDashboardCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive contract dashboard",
		Long:  `Launch the interactive TUI dashboard to browse every declared capability contract, its supported names, wrapper chain, and adaptive status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, app)
		},
	}
	return cmd
}

func runDashboard(cmd *cobra.Command, app *AppContext) error {
	ctx, logger := app.CommandContext(cmd, "command.dashboard")

	summaries, err := contractview.All()
	if err != nil {
		if logger != nil {
			logger.Error(ctx, "failed to summarize contracts", "error", err)
		}
		return fmt.Errorf("failed to summarize contracts: %w", err)
	}
	if logger != nil {
		logger.Info(ctx, "dashboard loaded", "contract_count", len(summaries))
	}

	m := dashboard.NewModel(summaries)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if logger != nil {
			logger.Error(ctx, "dashboard execution failed", "error", err)
		}
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	if logger != nil {
		logger.Info(ctx, "dashboard closed")
	}
	return nil
}
