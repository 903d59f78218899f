package itemform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/theme"
)

// Mode selects what the form edits.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
	ModeExplain
)

// SubmitMsg is dispatched when the form is completed.
type SubmitMsg struct {
	Mode    Mode
	Index   int
	Text    string
	Section model.Section
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	text    string
	section string
}

// Model is the Bubble Tea model for the item add/edit/explain form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	index  int
	width  int
	height int
}

// New creates a new item form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Mode returns the mode of the form in progress.
func (m Model) Mode() Mode { return m.mode }

// StartAdd initializes the form for a new item. withSection adds the
// personal/work selector used by daily lists.
func (m *Model) StartAdd(withSection bool) tea.Cmd {
	m.mode = ModeAdd
	m.index = -1
	m.fb.text = ""
	m.fb.section = string(model.SectionNone)

	fields := []huh.Field{m.textField("Item", "What will you do?")}
	if withSection {
		fields = append(fields, m.sectionField())
	}
	m.form = m.build(fields...)
	return m.form.Init()
}

// StartEdit initializes the form for editing the text of item i.
func (m *Model) StartEdit(i int, it model.Item) tea.Cmd {
	m.mode = ModeEdit
	m.index = i
	m.fb.text = it.Text
	m.fb.section = string(it.Section)
	m.form = m.build(m.textField("Item", "What will you do?"))
	return m.form.Init()
}

// StartExplain initializes the form for the explanation of yellow item i.
func (m *Model) StartExplain(i int, it model.Item) tea.Cmd {
	m.mode = ModeExplain
	m.index = i
	m.fb.text = it.Explanation
	m.form = m.build(
		huh.NewText().
			Title("Why is this yellow?").
			Description(it.Text).
			Placeholder("Leave empty to clear").
			CharLimit(280).
			Value(&m.fb.text),
	)
	return m.form.Init()
}

// Update handles messages for the item form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the item form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Item"
	switch m.mode {
	case ModeEdit:
		titleText = "Edit Item"
	case ModeExplain:
		titleText = "Explain Yellow Item"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build(fields ...huh.Field) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithShowHelp(true)
}

func (m *Model) textField(title, placeholder string) huh.Field {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&m.fb.text).
		Validate(validateRequired(title))
}

func (m *Model) sectionField() huh.Field {
	return huh.NewSelect[string]().
		Title("Section").
		Options(
			huh.NewOption("None", string(model.SectionNone)),
			huh.NewOption("Personal", string(model.SectionPersonal)),
			huh.NewOption("Work", string(model.SectionWork)),
		).
		Value(&m.fb.section)
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmitMsg{
		Mode:    m.mode,
		Index:   m.index,
		Text:    strings.TrimSpace(m.fb.text),
		Section: model.Section(m.fb.section),
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
