package userpicker

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/theme"
)

// PickedMsg is dispatched when a user has been chosen.
type PickedMsg struct {
	ID string
}

// CancelMsg is dispatched when the picker is dismissed.
type CancelMsg struct{}

// Model asks which configured user is working with the tracker.
type Model struct {
	form   *huh.Form
	choice *string
	width  int
	height int
}

// New creates a user picker.
func New(width, height int) Model {
	return Model{choice: new(string), width: width, height: height}
}

// Start builds the picker for users, preselecting current.
func (m *Model) Start(users []model.UserConfig, current string) tea.Cmd {
	*m.choice = current

	opts := make([]huh.Option[string], len(users))
	for i, u := range users {
		label := u.Name
		if label == "" {
			label = u.ID
		}
		opts[i] = huh.NewOption(label, u.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who are you?").
				Options(opts...).
				Value(m.choice),
		),
	).WithWidth(min(max(m.width-4, 30), 60))

	return m.form.Init()
}

// Update handles messages for the picker.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		id := *m.choice
		return m, func() tea.Msg { return PickedMsg{ID: id} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Select User")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the picker dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
