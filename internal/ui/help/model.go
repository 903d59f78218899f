// Package help renders the keyboard reference overlay together with a
// legend of the glyphs used in the period view.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	kind   model.Kind
	status model.RecordStatus
	width  int
	height int
}

// New creates a help overlay for k.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: k, help: h, kind: model.KindDaily, status: model.StatusDraft}
	m.SetSize(width, height)
	return m
}

// SetContext tells the overlay which record it was opened from, so the
// mode line matches the bindings that are currently enabled.
func (m *Model) SetContext(kind model.Kind, status model.RecordStatus) {
	m.kind = kind
	m.status = status
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Keyboard Shortcuts")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		theme.MutedStyle.Render(m.modeLine()),
		"",
		m.help.View(m.keys),
		"",
		m.legend(),
	)

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(content)
}

func (m Model) modeLine() string {
	if m.status == model.StatusCompleted {
		return fmt.Sprintf("%s record is completed: assign outcomes, or R to reopen it.", m.kind)
	}
	return fmt.Sprintf("%s record is a draft: edit items, then c to close the period.", m.kind)
}

func (m Model) legend() string {
	entries := []string{
		theme.OutcomeStyle(model.OutcomeGreen).Render(model.OutcomeGreen.Emoji()) + " done",
		theme.OutcomeStyle(model.OutcomeYellow).Render(model.OutcomeYellow.Emoji()) + " partly",
		theme.OutcomeStyle(model.OutcomeRed).Render(model.OutcomeRed.Emoji()) + " missed",
		"○ no outcome",
		"↻ carried over",
	}
	if m.kind == model.KindDaily {
		entries = append(entries, theme.SectionStyle.UnsetPadding().Render("[section]")+" personal/work")
	}
	return theme.HelpStyle.Render(strings.Join(entries, "   "))
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-8, 0)
}
