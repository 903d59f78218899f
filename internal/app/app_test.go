package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tracker/internal/lifecycle"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
	"github.com/nhle/tracker/internal/ui/command"
	"github.com/nhle/tracker/internal/ui/itemform"
	"github.com/nhle/tracker/internal/ui/userpicker"
	"github.com/nhle/tracker/tests/testutil"
)

type fixture struct {
	model      Model
	daily      *lifecycle.Tracker
	weekly     *lifecycle.Tracker
	configPath string
	copied     *string
}

func newFixture(t *testing.T, owner string) fixture {
	t.Helper()

	s := testutil.NewTestStore(t)
	// Wednesday of ISO week 8.
	clock := testutil.NewClock(time.Date(2025, 2, 19, 10, 0, 0, 0, time.UTC))
	daily := lifecycle.New(s, lifecycle.DailyPolicy, zerolog.Nop(), clock.Now)
	weekly := lifecycle.New(s, lifecycle.WeeklyPolicy, zerolog.Nop(), clock.Now)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &model.AppConfig{
		Owner:    owner,
		Users:    model.DefaultUsers(),
		Reminder: model.ReminderConfig{StaleDays: 7, CheckIntervalSec: 60},
	}

	m := New(Deps{
		Config:     cfg,
		ConfigPath: path,
		Daily:      daily,
		Weekly:     weekly,
		Clock:      clock.Now,
		Log:        zerolog.Nop(),
	})
	copied := new(string)
	m.copyText = func(s string) error {
		*copied = s
		return nil
	}

	return fixture{model: m, daily: daily, weekly: weekly, configPath: path, copied: copied}
}

// start runs the initial load of the model.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	for _, msg := range run(f.model.initCmd) {
		f.send(t, msg)
	}
}

// send feeds msg to the model and keeps running the commands it returns
// until none remain.
func (f *fixture) send(t *testing.T, msg tea.Msg) {
	t.Helper()

	queue := []tea.Msg{msg}
	for n := 0; len(queue) > 0; n++ {
		require.Less(t, n, 50, "message loop did not settle")
		next, cmd := f.model.Update(queue[0])
		f.model = next.(Model)
		queue = append(queue[1:], run(cmd)...)
	}
}

// update feeds msg to the model and returns its command without running
// it, as if the command were still in flight.
func (f *fixture) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func (f *fixture) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		f.send(t, keyMsg(k))
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyMsg(k string) tea.KeyMsg {
	if k == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestStartProvisionsCurrentDay(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	rec := f.model.periodView.Record()
	require.NotNil(t, rec)
	assert.Equal(t, model.KindDaily, rec.Kind)
	assert.Equal(t, "2025-02-19", rec.PeriodKey)
	assert.Equal(t, model.StatusDraft, rec.Status)

	stored, err := f.daily.Get(context.Background(), "carlo", "2025-02-19")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestDraftToReviewFlow(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "Write report", Section: model.SectionWork})
	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "Gym"})
	assert.Equal(t, "item added", f.model.flash)

	rec := f.model.periodView.Record()
	require.Len(t, rec.Items, 2)
	assert.Equal(t, model.SectionWork, rec.Items[0].Section)

	f.press(t, "c")
	rec = f.model.periodView.Record()
	assert.Equal(t, model.StatusCompleted, rec.Status)

	// Unsectioned items are listed first, so the cursor starts on "Gym".
	f.press(t, "g", "j", "y")
	rec = f.model.periodView.Record()
	assert.Equal(t, model.OutcomeGreen, rec.Items[1].Status)
	assert.Equal(t, model.OutcomeYellow, rec.Items[0].Status)

	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeExplain, Index: 0, Text: "blocked on data"})
	rec = f.model.periodView.Record()
	assert.Equal(t, "blocked on data", rec.Items[0].Explanation)

	// Editing keys are disabled once completed.
	f.press(t, "a")
	assert.Equal(t, ViewPeriod, f.model.currentView)

	f.press(t, "R")
	assert.Equal(t, model.StatusDraft, f.model.periodView.Record().Status)
}

func TestSectionCycleAndDelete(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "A"})
	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "B"})

	f.press(t, "s")
	assert.Equal(t, model.SectionPersonal, f.model.periodView.Record().Items[0].Section)

	// "A" moved below the unsectioned "B", which is now under the cursor.
	f.press(t, "d")
	items := f.model.periodView.Record().Items
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Text)
}

func TestExplanationOnlyForYellow(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "A"})
	f.press(t, "c", "r", "x")

	assert.Equal(t, ViewPeriod, f.model.currentView)
	assert.Equal(t, "only yellow items take an explanation", f.model.flash)
}

func TestTabSwitchesToWeekly(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.press(t, "tab")

	rec := f.model.periodView.Record()
	require.NotNil(t, rec)
	assert.Equal(t, model.KindWeekly, rec.Kind)
	assert.Equal(t, "2025-02-17", rec.PeriodKey)
	require.NotNil(t, rec.Week)
	assert.Equal(t, 8, rec.Week.WeekNumber)

	f.send(t, command.CommandMsg("daily"))
	assert.Equal(t, model.KindDaily, f.model.periodView.Record().Kind)
}

func TestCopyUsesShareText(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.send(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "Ship it"})
	f.press(t, "p")

	assert.Equal(t, share.Format(f.model.periodView.Record()), *f.copied)
	assert.Equal(t, "share text copied", f.model.flash)
}

func TestMailWithoutConfigFlashesError(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.press(t, "m")

	assert.True(t, f.model.flashErr)
	assert.Contains(t, f.model.flash, "mail is not configured")
}

func TestHistoryExcludesCurrentPeriod(t *testing.T) {
	f := newFixture(t, "carlo")
	_, err := f.daily.SetItems(context.Background(), "carlo", "2025-02-18",
		[]model.Item{{Text: "old"}}, model.StatusCompleted)
	require.NoError(t, err)
	f.start(t)

	f.press(t, "h")

	assert.Equal(t, ViewHistory, f.model.currentView)
	rec, ok := f.model.historyView.Selected()
	require.True(t, ok)
	assert.Equal(t, "2025-02-18", rec.PeriodKey)
}

func TestUserPickerSavesOwner(t *testing.T) {
	f := newFixture(t, "")
	assert.Equal(t, ViewUserPicker, f.model.currentView)

	f.send(t, userpicker.PickedMsg{ID: "stefania"})

	assert.Equal(t, ViewPeriod, f.model.currentView)
	rec := f.model.periodView.Record()
	require.NotNil(t, rec)
	assert.Equal(t, "stefania", rec.Owner)

	cfg, err := model.LoadConfig(f.configPath)
	require.NoError(t, err)
	assert.Equal(t, "stefania", cfg.Owner)
}

func TestUnknownCommandFlashes(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	f.send(t, command.CommandMsg("dance"))

	assert.Equal(t, `unknown command "dance"`, f.model.flash)
}

func TestQuickOutcomeKeysKeepEveryEdit(t *testing.T) {
	f := newFixture(t, "carlo")
	ctx := context.Background()
	_, err := f.daily.SetItems(ctx, "carlo", "2025-02-19",
		[]model.Item{{Text: "A"}, {Text: "B"}}, model.StatusCompleted)
	require.NoError(t, err)
	f.start(t)

	// Both keys are pressed before either write has run.
	green := f.update(t, keyMsg("g"))
	f.update(t, keyMsg("j"))
	red := f.update(t, keyMsg("r"))

	shown := f.model.periodView.Record().Items
	assert.Equal(t, model.OutcomeGreen, shown[0].Status)
	assert.Equal(t, model.OutcomeRed, shown[1].Status)

	// The later write is started first; writes still land in key order.
	done := make(chan []tea.Msg)
	go func() { done <- run(red) }()
	msgs := run(green)
	msgs = append(msgs, <-done...)
	for _, msg := range msgs {
		f.send(t, msg)
	}

	stored, err := f.daily.Get(ctx, "carlo", "2025-02-19")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeGreen, stored.Items[0].Status)
	assert.Equal(t, model.OutcomeRed, stored.Items[1].Status)

	shown = f.model.periodView.Record().Items
	assert.Equal(t, model.OutcomeGreen, shown[0].Status)
	assert.Equal(t, model.OutcomeRed, shown[1].Status)
}

func TestQuickDraftEditsKeepEveryEdit(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	first := f.update(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "A"})
	second := f.update(t, itemform.SubmitMsg{Mode: itemform.ModeAdd, Text: "B"})
	complete := f.update(t, keyMsg("c"))

	for _, cmd := range []tea.Cmd{first, second, complete} {
		for _, msg := range run(cmd) {
			f.send(t, msg)
		}
	}

	stored, err := f.daily.Get(context.Background(), "carlo", "2025-02-19")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "A", stored.Items[0].Text)
	assert.Equal(t, "B", stored.Items[1].Text)
	assert.Equal(t, model.StatusCompleted, stored.Status)
}

func TestRolloverProvisionsHiddenKind(t *testing.T) {
	f := newFixture(t, "carlo")
	f.start(t)

	run(f.model.provision(model.KindWeekly))

	rec, err := f.weekly.Get(context.Background(), "carlo", "2025-02-17")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.KindDaily, f.model.periodView.Kind(), "the daily view stays on screen")
}
