package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/extrt-io/extrt/internal/contractview"
)

func fixtureContracts() []contractview.Summary {
	return []contractview.Summary{
		{Contract: "greeterdemo.Greeter", DefaultName: "en", Names: []string{"en", "fr"}, Wrappers: []string{"logging"}, HasAdaptive: true},
		{Contract: "greeterdemo.Filter", DefaultName: "a", Names: []string{"a", "b", "c"}},
	}
}

func TestMoveCursorWrapsAroundBothDirections(t *testing.T) {
	m := NewModel(fixtureContracts())
	require.Equal(t, 0, m.cursor)

	m.moveCursor(-1)
	require.Equal(t, 1, m.cursor)

	m.moveCursor(1)
	require.Equal(t, 0, m.cursor)
}

func TestSelectedReturnsContractUnderCursor(t *testing.T) {
	m := NewModel(fixtureContracts())
	m.cursor = 1

	sel, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "greeterdemo.Filter", sel.Contract)
}

func TestSelectedFalseOnEmptyModel(t *testing.T) {
	m := NewModel(nil)
	_, ok := m.Selected()
	require.False(t, ok)
}

func TestUpdateQuitsOnQ(t *testing.T) {
	m := NewModel(fixtureContracts())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	m := NewModel(fixtureContracts())
	require.NotEmpty(t, m.View())

	empty := NewModel(nil)
	require.NotEmpty(t, empty.View())
}
