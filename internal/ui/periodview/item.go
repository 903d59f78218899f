package periodview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/theme"
)

// Entry wraps a record item so it can be used in a bubbles/list. Index is
// the position in the stored list, Number the 1-based position shown.
type Entry struct {
	Index     int
	Number    int
	Item      model.Item
	Completed bool
}

// FilterValue returns the string used for filtering.
func (e Entry) FilterValue() string { return e.Item.Text }

// EntryDelegate implements list.ItemDelegate for rendering record items.
type EntryDelegate struct{}

// Height returns the number of lines each item takes.
func (d EntryDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d EntryDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d EntryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single item line.
func (d EntryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, ok := item.(Entry)
	if !ok {
		return
	}

	fmt.Fprint(w, renderEntry(e, index == m.Index()))
}

func renderEntry(e Entry, selected bool) string {
	prefix := fmt.Sprintf("%d.", e.Number)
	if e.Completed && e.Item.Status != model.OutcomeUnset {
		prefix = theme.OutcomeStyle(e.Item.Status).Render(e.Item.Status.Emoji())
	} else if e.Completed {
		prefix = theme.OutcomeStyle(model.OutcomeUnset).Render("○")
	}

	line := prefix + " " + e.Item.Text

	if e.Item.Section != model.SectionNone {
		line += " " + lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render("["+string(e.Item.Section)+"]")
	}
	if e.Item.CarriedOver {
		line += theme.MutedStyle.Render(" ↻")
	}
	if e.Item.Status == model.OutcomeYellow && e.Item.Explanation != "" {
		line += theme.MutedStyle.Render(" (" + e.Item.Explanation + ")")
	}

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
