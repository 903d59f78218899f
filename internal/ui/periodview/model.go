// Package periodview renders the record of the current day or week.
package periodview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
	"github.com/nhle/tracker/internal/theme"
)

// Model shows the items of one record.
type Model struct {
	list      list.Model
	keys      *keys.KeyMap
	kind      model.Kind
	record    *model.Record
	staleDays int
	width     int
	height    int
}

// New creates a period view for kind.
func New(kind model.Kind, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, EntryDelegate{}, width, height-3)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		kind:   kind,
		width:  width,
		height: height,
	}
}

// Kind returns the record kind currently shown.
func (m Model) Kind() model.Kind { return m.kind }

// SetKind switches the view to another kind and clears the record.
func (m *Model) SetKind(kind model.Kind) {
	m.kind = kind
	m.record = nil
	m.list.SetItems(nil)
}

// Record returns the record shown, or nil before it is loaded.
func (m Model) Record() *model.Record { return m.record }

// SetRecord replaces the record shown while keeping the cursor in range.
func (m *Model) SetRecord(rec *model.Record) tea.Cmd {
	m.record = rec
	if rec == nil {
		return m.list.SetItems(nil)
	}

	m.keys.DraftMode(!rec.IsCompleted())

	// Same order and numbering as the share text.
	items := make([]list.Item, 0, len(rec.Items))
	for n, i := range share.Order(rec.Items) {
		items = append(items, Entry{Index: i, Number: n + 1, Item: rec.Items[i], Completed: rec.IsCompleted()})
	}
	cursor := m.list.Index()
	cmd := m.list.SetItems(items)
	if cursor >= len(items) {
		cursor = len(items) - 1
	}
	if cursor >= 0 {
		m.list.Select(cursor)
	}
	return cmd
}

// SetStaleDays sets the number of days shown in the stale reminder
// banner. Zero hides the banner.
func (m *Model) SetStaleDays(days int) { m.staleDays = days }

// Selected returns the index and item under the cursor.
func (m Model) Selected() (int, model.Item, bool) {
	e, ok := m.list.SelectedItem().(Entry)
	if !ok {
		return 0, model.Item{}, false
	}
	return e.Index, e.Item, true
}

// Update handles navigation. Editing keys are handled by the root model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.list.CursorDown()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.list.CursorUp()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the header line, the optional stale banner and the items.
func (m Model) View() string {
	if m.record == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading...")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		PaddingLeft(1).
		Render(share.Title(m.record))
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", theme.StatusBadge(m.record.Status))

	rows := []string{header}
	if m.staleDays > 0 && m.kind == model.KindWeekly {
		rows = append(rows, theme.BannerStyle.Render(
			fmt.Sprintf("Weekly goals not updated for %d days", m.staleDays),
		))
	}
	rows = append(rows, "")

	if len(m.record.Items) == 0 {
		rows = append(rows, m.renderEmptyState())
	} else {
		rows = append(rows, m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderEmptyState() string {
	msg := "Nothing planned yet.\nPress a to add an item."
	if m.record.IsCompleted() {
		msg = "No items.\nPress R to revert to draft."
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(msg)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-4, 1))
}
