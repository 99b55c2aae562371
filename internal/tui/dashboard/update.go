package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key presses and window resize.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
			return m, nil
		case "down", "j":
			m.moveCursor(1)
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.contracts) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = len(m.contracts) - 1
	}
	if m.cursor >= len(m.contracts) {
		m.cursor = 0
	}
}
