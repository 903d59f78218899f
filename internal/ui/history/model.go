// Package history lists the past records of one kind and previews their
// share text.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
	"github.com/nhle/tracker/internal/theme"
)

// Lister returns an owner's records, most recent first.
type Lister interface {
	List(ctx context.Context, owner string) ([]model.Record, error)
}

// LoadedMsg carries the records fetched by Load.
type LoadedMsg struct {
	Kind    model.Kind
	Records []model.Record
	Err     error
}

// CloseMsg is dispatched when the user leaves the history view.
type CloseMsg struct{}

// recordItem adapts a record to bubbles/list.
type recordItem struct {
	rec model.Record
}

func (i recordItem) FilterValue() string { return i.rec.PeriodKey }
func (i recordItem) Title() string       { return share.Label(&i.rec) }

func (i recordItem) Description() string {
	counts := map[model.Outcome]int{}
	for _, it := range i.rec.Items {
		counts[it.Status]++
	}
	parts := []string{
		string(i.rec.Status),
		fmt.Sprintf("%d items", len(i.rec.Items)),
	}
	for _, o := range []model.Outcome{model.OutcomeGreen, model.OutcomeYellow, model.OutcomeRed} {
		if counts[o] > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", counts[o], o.Emoji()))
		}
	}
	return strings.Join(parts, " · ")
}

// Model is the history view.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	kind    model.Kind
	preview bool
	err     error
	width   int
	height  int
}

// New creates a history view.
func New(k *keys.KeyMap, width, height int) Model {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(theme.ColorBlue).BorderForeground(theme.ColorBlue)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(theme.ColorGray).BorderForeground(theme.ColorBlue)

	l := list.New([]list.Item{}, d, width, height)
	l.Title = "History"
	l.Styles.Title = theme.HeaderStyle
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Load returns a command fetching the history of owner from src. The
// record of currentKey is left out since the period view already shows it.
func Load(src Lister, kind model.Kind, owner, currentKey string) tea.Cmd {
	return func() tea.Msg {
		records, err := src.List(context.Background(), owner)
		if err != nil {
			return LoadedMsg{Kind: kind, Err: err}
		}
		past := make([]model.Record, 0, len(records))
		for _, r := range records {
			if r.PeriodKey != currentKey {
				past = append(past, r)
			}
		}
		return LoadedMsg{Kind: kind, Records: past}
	}
}

// Update handles messages for the history view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.kind = msg.Kind
		m.err = msg.Err
		m.preview = false
		m.list.Title = "History: " + string(msg.Kind)
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{rec: r}
		}
		m.list.ResetSelected()
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			if m.preview {
				m.preview = false
				return m, nil
			}
			return m, func() tea.Msg { return CloseMsg{} }
		case msg.String() == "enter":
			m.preview = !m.preview
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the record under the cursor.
func (m Model) Selected() (*model.Record, bool) {
	it, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return nil, false
	}
	rec := it.rec
	return &rec, true
}

// View renders the list, or the share text of the selected record when
// the preview is open.
func (m Model) View() string {
	if m.err != nil {
		return theme.ErrorStyle.Render("Could not load history: " + m.err.Error())
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No past records yet.")
	}

	if m.preview {
		if rec, ok := m.Selected(); ok {
			return theme.PanelStyle.
				Width(max(m.width-4, 0)).
				Render(share.Format(rec))
		}
	}
	return m.list.View()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
