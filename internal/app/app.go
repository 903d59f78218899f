package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/lifecycle"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/reminder"
	"github.com/nhle/tracker/internal/share"
	"github.com/nhle/tracker/internal/theme"
	"github.com/nhle/tracker/internal/ui"
	"github.com/nhle/tracker/internal/ui/command"
	helpview "github.com/nhle/tracker/internal/ui/help"
	"github.com/nhle/tracker/internal/ui/history"
	"github.com/nhle/tracker/internal/ui/itemform"
	"github.com/nhle/tracker/internal/ui/periodview"
	"github.com/nhle/tracker/internal/ui/userpicker"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewPeriod ViewState = iota
	ViewHistory
	ViewForm
	ViewUserPicker
	ViewHelp
	ViewCommand
)

// Deps are the collaborators of the root model.
type Deps struct {
	Config     *model.AppConfig
	ConfigPath string
	Daily      *lifecycle.Tracker
	Weekly     *lifecycle.Tracker
	Clock      func() time.Time
	Log        zerolog.Logger
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the lifecycle trackers.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	cfg          *model.AppConfig
	configPath   string
	trackers     map[model.Kind]*lifecycle.Tracker
	clock        func() time.Time
	log          zerolog.Logger
	keys         *keys.KeyMap
	periodView   periodview.Model
	historyView  history.Model
	formView     itemform.Model
	userView     userpicker.Model
	helpView     helpview.Model
	commandView  command.Model
	watcher      *reminder.Watcher
	copyText     func(string) error
	writes       *writeQueue
	initCmd      tea.Cmd
	flash        string
	flashErr     bool
	ready        bool
}

// New creates the root application model. When no owner is configured
// the user picker is shown first.
func New(d Deps) Model {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	k := keys.DefaultKeyMap()
	log := d.Log.With().Str("component", "app").Logger()

	m := Model{
		currentView: ViewPeriod,
		cfg:         d.Config,
		configPath:  d.ConfigPath,
		trackers: map[model.Kind]*lifecycle.Tracker{
			model.KindDaily:  d.Daily,
			model.KindWeekly: d.Weekly,
		},
		clock:       d.Clock,
		log:         log,
		keys:        k,
		periodView:  periodview.New(model.KindDaily, k, 80, 24),
		historyView: history.New(k, 80, 24),
		formView:    itemform.New(80, 24),
		userView:    userpicker.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		watcher: reminder.New(
			d.Weekly,
			d.Config.Owner,
			time.Duration(d.Config.Reminder.CheckIntervalSec)*time.Second,
			d.Config.Reminder.StaleDays,
			d.Clock,
			d.Log,
		),
		copyText: share.Copy,
		writes:   newWriteQueue(),
	}

	if m.cfg.Owner == "" {
		m.currentView = ViewUserPicker
		m.initCmd = m.userView.Start(m.cfg.Users, "")
	} else {
		m.initCmd = m.loadCurrent()
	}

	return m
}

// Init returns the initial commands to load the current record and
// start the reminder watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.watcher.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.periodView.SetSize(contentWidth, contentHeight)
		m.historyView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.userView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case recordLoadedMsg:
		if msg.kind != m.periodView.Kind() {
			return m, nil
		}
		if msg.err != nil {
			m.setFlash("", msg.err)
			return m, nil
		}
		return m, m.periodView.SetRecord(msg.rec)

	case mutatedMsg:
		m.setFlash(msg.what, msg.err)
		// The screen already shows queued edits; reload once they are
		// stored, or at once to resync after a failure.
		if msg.kind != m.periodView.Kind() || (msg.err == nil && !m.writes.idle()) {
			return m, nil
		}
		return m, m.loadCurrent()

	case flashMsg:
		m.setFlash(msg.text, msg.err)
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			m.setFlash("", msg.err)
		}
		return m, nil

	case reminder.RolloverMsg:
		// A new period is provisioned right away; the one on screen is
		// also reloaded.
		cmds := []tea.Cmd{m.watcher.WaitForNext()}
		switch {
		case m.cfg.Owner == "":
		case msg.Kind == m.periodView.Kind():
			cmds = append(cmds, m.loadCurrent())
		default:
			cmds = append(cmds, m.provision(msg.Kind))
		}
		return m, tea.Batch(cmds...)

	case reminder.StaleMsg:
		m.periodView.SetStaleDays(msg.Days)
		return m, m.watcher.WaitForNext()

	case reminder.ErrorMsg:
		m.log.Warn().Err(msg.Err).Msg("reminder check failed")
		return m, m.watcher.WaitForNext()

	case itemform.SubmitMsg:
		m.currentView = ViewPeriod
		return m, m.applyForm(msg)

	case itemform.CancelMsg:
		m.currentView = ViewPeriod
		return m, nil

	case userpicker.PickedMsg:
		m.currentView = ViewPeriod
		return m, m.switchOwner(msg.ID)

	case userpicker.CancelMsg:
		if m.cfg.Owner == "" {
			m.watcher.Stop()
			return m, tea.Quit
		}
		m.currentView = ViewPeriod
		return m, nil

	case history.CloseMsg:
		m.currentView = ViewPeriod
		return m, nil

	case history.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.watcher.Stop()
			return m, tea.Quit
		}
		m.flash = ""

		switch m.currentView {
		case ViewPeriod:
			return m.handlePeriodKeys(msg)
		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		case ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handlePeriodKeys processes keys in the period view. Editing and review
// bindings are enabled by the view according to the record status.
func (m Model) handlePeriodKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.watcher.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		status := model.StatusDraft
		if rec := m.periodView.Record(); rec != nil {
			status = rec.Status
		}
		m.helpView.SetContext(m.periodView.Kind(), status)
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.SwitchPeriod):
		next := model.KindWeekly
		if m.periodView.Kind() == model.KindWeekly {
			next = model.KindDaily
		}
		return m, m.switchKind(next)

	case key.Matches(msg, m.keys.History):
		return m, m.openHistory()

	case key.Matches(msg, m.keys.SwitchUser):
		m.previousView = m.currentView
		m.currentView = ViewUserPicker
		return m, m.userView.Start(m.cfg.Users, m.cfg.Owner)

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyShare()

	case key.Matches(msg, m.keys.Mail):
		return m, m.saveMailDraft()
	}

	if m.periodView.Record() == nil {
		return m.updateActiveView(msg)
	}

	idx, item, hasItem := m.periodView.Selected()

	switch {
	case key.Matches(msg, m.keys.Add):
		m.currentView = ViewForm
		return m, m.formView.StartAdd(m.periodView.Kind() == model.KindDaily)

	case key.Matches(msg, m.keys.Edit) && hasItem:
		m.currentView = ViewForm
		return m, m.formView.StartEdit(idx, item)

	case key.Matches(msg, m.keys.Delete) && hasItem:
		return m, m.mutate("item deleted", func(items []model.Item) ([]model.Item, error) {
			return model.RemoveItem(items, idx)
		})

	case key.Matches(msg, m.keys.Section) && hasItem && m.periodView.Kind() == model.KindDaily:
		return m, m.mutate("section changed", func(items []model.Item) ([]model.Item, error) {
			return model.SetSection(items, idx, item.Section.Next())
		})

	case key.Matches(msg, m.keys.Complete):
		return m, m.setStatus(model.StatusCompleted)

	case key.Matches(msg, m.keys.Revert):
		return m, m.setStatus(model.StatusDraft)

	case key.Matches(msg, m.keys.Green) && hasItem:
		return m, m.setOutcome(idx, model.OutcomeGreen)

	case key.Matches(msg, m.keys.Yellow) && hasItem:
		return m, m.setOutcome(idx, model.OutcomeYellow)

	case key.Matches(msg, m.keys.Red) && hasItem:
		return m, m.setOutcome(idx, model.OutcomeRed)

	case key.Matches(msg, m.keys.Unset) && hasItem:
		return m, m.setOutcome(idx, model.OutcomeUnset)

	case key.Matches(msg, m.keys.Explanation) && hasItem:
		if item.Status != model.OutcomeYellow {
			m.setFlash("only yellow items take an explanation", nil)
			return m, nil
		}
		m.currentView = ViewForm
		return m, m.formView.StartExplain(idx, item)
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewPeriod:
		m.periodView, cmd = m.periodView.Update(msg)
	case ViewHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewUserPicker:
		m.userView, cmd = m.userView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPeriod:
		return m.periodView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewForm:
		return m.formView.View()
	case ViewUserPicker:
		return m.userView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

func (m Model) headerTitle() string {
	title := "Tracker"
	if u, ok := m.cfg.User(m.cfg.Owner); ok {
		name := u.Name
		if name == "" {
			name = u.ID
		}
		title += " " + theme.UserStyle(u.Color).Render(name)
	}
	return title
}

// headerStatus describes the period shown and the reminder state.
func (m Model) headerStatus() string {
	status := "Daily"
	if m.periodView.Kind() == model.KindWeekly {
		status = "Weekly"
	}
	switch st := m.watcher.Status(); st.State {
	case reminder.StateChecking:
		status += " · checking"
	case reminder.StateError:
		status += " · reminder unavailable"
	default:
		if st.StaleDays >= m.cfg.Reminder.StaleDays {
			status += fmt.Sprintf(" · goals stale %dd", st.StaleDays)
		}
	}
	return status
}

// statusLine returns the flash message or keyboard hints for the status
// bar.
func (m Model) statusLine() string {
	if m.flash != "" {
		if m.flashErr {
			return theme.ErrorStyle.Render(m.flash)
		}
		return m.flash
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewForm, ViewUserPicker:
		return "enter submit | esc cancel"
	case ViewHistory:
		return "enter preview | esc back | j/k move"
	default:
		if m.periodView.Record().IsCompleted() {
			return "g/y/r/u outcome | x explain | R revert | p copy | tab switch | ? help | q quit"
		}
		return "a add | e edit | d delete | c complete | p copy | tab switch | ? help | q quit"
	}
}

func (m *Model) setFlash(text string, err error) {
	m.flashErr = err != nil
	if err != nil {
		m.flash = "Error: " + err.Error()
		return
	}
	m.flash = text
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "daily":
		return m.switchKind(model.KindDaily)
	case "weekly":
		return m.switchKind(model.KindWeekly)
	case "history":
		return m.openHistory()
	case "user", "switch user":
		m.previousView = m.currentView
		m.currentView = ViewUserPicker
		return m.userView.Start(m.cfg.Users, m.cfg.Owner)
	case "complete":
		if m.periodView.Record().IsCompleted() {
			return nil
		}
		return m.setStatus(model.StatusCompleted)
	case "revert":
		if !m.periodView.Record().IsCompleted() {
			return nil
		}
		return m.setStatus(model.StatusDraft)
	case "copy":
		return m.copyShare()
	case "mail":
		return m.saveMailDraft()
	case "refresh":
		m.watcher.Trigger()
		return m.loadCurrent()
	case "quit", "q":
		m.watcher.Stop()
		return tea.Quit
	default:
		m.setFlash(fmt.Sprintf("unknown command %q", cmd), nil)
		return nil
	}
}
