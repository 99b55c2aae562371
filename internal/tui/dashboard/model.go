// Package dashboard is a Bubble Tea TUI that browses every declared
// capability contract: its supported names, wrapper chain, and adaptive
// status, mirroring the teacher's pipeline dashboard (internal/tui/dashboard
// in the teacher repo) but scoped to the extension runtime's own domain.
package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/extrt-io/extrt/internal/contractview"
)

// Model is the dashboard's Bubble Tea model.
type Model struct {
	contracts []contractview.Summary
	cursor    int
	width     int
	height    int
	quitting  bool
}

// NewModel builds a dashboard over the given contract summaries, sorted by
// Contract already (contractview.All's contract).
func NewModel(contracts []contractview.Summary) Model {
	return Model{contracts: contracts}
}

// Init satisfies tea.Model; the dashboard needs no startup command.
func (m Model) Init() tea.Cmd { return nil }

// Selected returns the contract under the cursor, if any.
func (m Model) Selected() (contractview.Summary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.contracts) {
		return contractview.Summary{}, false
	}
	return m.contracts[m.cursor], true
}
