// Package command implements the ":" palette of the tracker UI.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/theme"
)

// CommandMsg carries the name of the command the user ran.
type CommandMsg string

// Command is one palette entry.
type Command struct {
	Name string
	Desc string
}

// Commands lists what the palette understands, in suggestion order.
var Commands = []Command{
	{"daily", "show today's list"},
	{"weekly", "show this week's goals"},
	{"history", "browse past records"},
	{"user", "switch who you are"},
	{"complete", "close the current period"},
	{"revert", "reopen the current period"},
	{"copy", "copy the share text"},
	{"mail", "save the share text as a mail draft"},
	{"refresh", "reload and re-check reminders"},
	{"quit", "leave the tracker"},
}

// Names returns the command names in suggestion order.
func Names() []string {
	names := make([]string, len(Commands))
	for i, c := range Commands {
		names[i] = c.Name
	}
	return names
}

// Model is the command palette view.
type Model struct {
	input textinput.Model
	width int
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "command"
	ti.ShowSuggestions = true
	ti.SetSuggestions(Names())

	m := Model{input: ti}
	m.SetSize(width, height)
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		name := m.resolve()
		m.input.Reset()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg { return CommandMsg(name) }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resolve returns the typed command, completed to the single command it
// is a prefix of when that is unambiguous.
func (m Model) resolve() string {
	typed := strings.ToLower(strings.TrimSpace(m.input.Value()))
	if typed == "" {
		return ""
	}
	matches := matching(typed)
	if len(matches) == 1 {
		return matches[0].Name
	}
	return typed
}

func matching(prefix string) []Command {
	var out []Command
	for _, c := range Commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Command")

	typed := strings.ToLower(strings.TrimSpace(m.input.Value()))
	candidates := Commands
	if typed != "" {
		candidates = matching(typed)
	}

	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		lines = append(lines, theme.HelpStyle.Render(c.Name+"  "+c.Desc))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.ErrorStyle.Render("no such command"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.input.View(),
		"",
		strings.Join(lines, "\n"),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(content)
}

// SetSize updates the palette dimensions.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.input.Width = max(width-10, 0)
}

// Focus clears the input and gives it keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
