package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func enter(t *testing.T, m Model) (Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestEnterResolvesUniquePrefix(t *testing.T) {
	tests := []struct {
		typed string
		want  tea.Msg
	}{
		{"weekly", CommandMsg("weekly")},
		{"wee", CommandMsg("weekly")},
		{"q", CommandMsg("quit")},
		{"  Hist ", CommandMsg("history")},
		{"r", CommandMsg("r")}, // revert and refresh
		{"nope", CommandMsg("nope")},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			m := New(80, 24)
			m.Focus()
			m = typeText(m, tt.typed)

			m, msg := enter(t, m)
			assert.Equal(t, tt.want, msg)
			assert.Empty(t, m.input.Value(), "input is cleared after running")
		})
	}
}

func TestEnterOnEmptyInputDoesNothing(t *testing.T) {
	m := New(80, 24)
	m.Focus()

	_, msg := enter(t, m)
	assert.Nil(t, msg)
}

func TestViewFiltersCandidates(t *testing.T) {
	m := New(80, 24)
	m.Focus()

	all := m.View()
	for _, name := range Names() {
		assert.Contains(t, all, name)
	}

	m = typeText(m, "co")
	view := m.View()
	assert.Contains(t, view, "close the current period")
	assert.Contains(t, view, "copy the share text")
	assert.NotContains(t, view, "browse past records")

	m = typeText(m, "zz")
	assert.Contains(t, m.View(), "no such command")
}

func TestNamesFollowCommands(t *testing.T) {
	names := Names()
	require.Len(t, names, len(Commands))
	assert.Equal(t, "daily", names[0])
	assert.Equal(t, "quit", names[len(names)-1])
}
