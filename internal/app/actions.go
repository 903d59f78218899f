package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tracker/internal/credential"
	"github.com/nhle/tracker/internal/lifecycle"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/share"
	"github.com/nhle/tracker/internal/ui/history"
	"github.com/nhle/tracker/internal/ui/itemform"
)

// recordLoadedMsg carries the current record of kind after provisioning.
type recordLoadedMsg struct {
	kind model.Kind
	rec  *model.Record
	err  error
}

// mutatedMsg is sent after a record write.
type mutatedMsg struct {
	kind model.Kind
	what string
	err  error
}

// flashMsg sets the status bar message.
type flashMsg struct {
	text string
	err  error
}

// configSavedMsg is sent after the selected user has been persisted.
type configSavedMsg struct{ err error }

func (m *Model) tracker() *lifecycle.Tracker {
	return m.trackers[m.periodView.Kind()]
}

// loadCurrent provisions the record of the current period, if missing,
// and loads it.
func (m *Model) loadCurrent() tea.Cmd {
	tr := m.tracker()
	kind := m.periodView.Kind()
	owner := m.cfg.Owner
	now := m.clock()

	return func() tea.Msg {
		ctx := context.Background()
		key := tr.Key(now)
		if _, err := tr.Initialize(ctx, owner, key); err != nil {
			return recordLoadedMsg{kind: kind, err: err}
		}
		rec, err := tr.Get(ctx, owner, key)
		return recordLoadedMsg{kind: kind, rec: rec, err: err}
	}
}

// provision creates the current record of kind, with carry-over, without
// showing it.
func (m *Model) provision(kind model.Kind) tea.Cmd {
	tr := m.trackers[kind]
	owner := m.cfg.Owner
	now := m.clock()

	return func() tea.Msg {
		if _, err := tr.Initialize(context.Background(), owner, tr.Key(now)); err != nil {
			return flashMsg{err: err}
		}
		return nil
	}
}

func (m *Model) switchKind(kind model.Kind) tea.Cmd {
	m.currentView = ViewPeriod
	if kind == m.periodView.Kind() {
		return nil
	}
	m.periodView.SetKind(kind)
	return m.loadCurrent()
}

func (m *Model) openHistory() tea.Cmd {
	m.previousView = ViewPeriod
	m.currentView = ViewHistory
	tr := m.tracker()
	return history.Load(tr, m.periodView.Kind(), m.cfg.Owner, tr.Key(m.clock()))
}

// switchOwner makes id the active user, persists the choice and reloads.
func (m *Model) switchOwner(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	changed := id != m.cfg.Owner
	m.cfg.Owner = id
	m.watcher.SetOwner(id)
	m.watcher.Trigger()
	if changed {
		m.periodView.SetStaleDays(0)
	}
	m.periodView.SetKind(m.periodView.Kind())
	m.log.Info().Str("owner", id).Msg("active user changed")

	cfg := *m.cfg
	path := m.configPath
	save := func() tea.Msg {
		if path == "" {
			return configSavedMsg{}
		}
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
	return tea.Batch(save, m.loadCurrent())
}

// mutate applies fn to the shown record at once, so the next key press
// builds on the edited list, and queues the store write. The write applies
// fn again to the stored items, which keeps every queued edit.
func (m *Model) mutate(what string, fn func([]model.Item) ([]model.Item, error)) tea.Cmd {
	rec := m.periodView.Record()
	if rec == nil {
		return nil
	}
	local, err := fn(rec.Items)
	if err != nil {
		m.setFlash("", err)
		return nil
	}
	shown := *rec
	shown.Items = model.NormalizeItems(local)
	viewCmd := m.periodView.SetRecord(&shown)

	tr := m.tracker()
	kind, owner, key := rec.Kind, rec.Owner, rec.PeriodKey
	writes, ticket := m.writes, m.writes.ticket()

	return tea.Batch(viewCmd, func() tea.Msg {
		var msg mutatedMsg
		writes.run(ticket, func() {
			msg = writeItems(tr, kind, owner, key, what, fn)
		})
		return msg
	})
}

// writeItems applies fn to the stored record. Drafts save items and status
// together; completed records only take new items.
func writeItems(
	tr *lifecycle.Tracker,
	kind model.Kind,
	owner, key, what string,
	fn func([]model.Item) ([]model.Item, error),
) mutatedMsg {
	ctx := context.Background()
	cur, err := tr.Get(ctx, owner, key)
	if err != nil {
		return mutatedMsg{kind: kind, err: err}
	}
	if cur == nil {
		return mutatedMsg{kind: kind, what: "nothing changed"}
	}

	next, err := fn(cur.Items)
	if err != nil {
		return mutatedMsg{kind: kind, err: err}
	}
	if cur.IsCompleted() {
		_, err = tr.UpdateItems(ctx, owner, key, next)
	} else {
		_, err = tr.SetItems(ctx, owner, key, next, cur.Status)
	}
	if err != nil {
		return mutatedMsg{kind: kind, err: err}
	}
	return mutatedMsg{kind: kind, what: what}
}

func (m *Model) setOutcome(i int, o model.Outcome) tea.Cmd {
	return m.mutate("outcome updated", func(items []model.Item) ([]model.Item, error) {
		return model.SetOutcome(items, i, o)
	})
}

// setStatus flips the shown record at once and queues the write behind any
// pending item edits.
func (m *Model) setStatus(status model.RecordStatus) tea.Cmd {
	rec := m.periodView.Record()
	if rec == nil {
		return nil
	}
	shown := *rec
	shown.Status = status
	viewCmd := m.periodView.SetRecord(&shown)

	tr := m.tracker()
	kind := rec.Kind
	owner, key := rec.Owner, rec.PeriodKey
	writes, ticket := m.writes, m.writes.ticket()

	return tea.Batch(viewCmd, func() tea.Msg {
		msg := mutatedMsg{kind: kind, what: "marked completed"}
		writes.run(ticket, func() {
			ctx := context.Background()
			if status == model.StatusCompleted {
				_, msg.err = tr.MarkCompleted(ctx, owner, key)
			} else {
				msg.what = "reverted to draft"
				_, msg.err = tr.RevertToDraft(ctx, owner, key)
			}
		})
		return msg
	})
}

// applyForm writes the result of the item form.
func (m *Model) applyForm(msg itemform.SubmitMsg) tea.Cmd {
	switch msg.Mode {
	case itemform.ModeAdd:
		return m.mutate("item added", func(items []model.Item) ([]model.Item, error) {
			return model.AppendItem(items, msg.Text, msg.Section), nil
		})
	case itemform.ModeEdit:
		return m.mutate("item updated", func(items []model.Item) ([]model.Item, error) {
			return model.EditItemText(items, msg.Index, msg.Text)
		})
	case itemform.ModeExplain:
		return m.mutate("explanation saved", func(items []model.Item) ([]model.Item, error) {
			return model.SetExplanation(items, msg.Index, msg.Text)
		})
	default:
		return nil
	}
}

func (m *Model) copyShare() tea.Cmd {
	rec := m.periodView.Record()
	if rec == nil {
		return nil
	}
	text := share.Format(rec)
	copyText := m.copyText

	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return flashMsg{err: fmt.Errorf("copy share text: %w", err)}
		}
		return flashMsg{text: "share text copied"}
	}
}

// saveMailDraft stores the share text as a draft in the configured IMAP
// mailbox.
func (m *Model) saveMailDraft() tea.Cmd {
	rec := m.periodView.Record()
	if rec == nil {
		return nil
	}
	cfg := m.cfg.Share.Mail
	if !cfg.Enabled() {
		return func() tea.Msg {
			return flashMsg{err: errors.New("mail is not configured (share.mail.host)")}
		}
	}
	draft := share.DraftFor(rec, m.clock())
	log := m.log

	return func() tea.Msg {
		password, err := credential.Lookup(credential.EnvIMAPPassword, credential.IMAPKey(cfg.Username))
		if err != nil {
			return flashMsg{err: fmt.Errorf("load IMAP password: %w", err)}
		}
		if err := share.NewMailer(cfg, password).Save(context.Background(), draft); err != nil {
			log.Error().Err(err).Str("mailbox", cfg.Mailbox).Msg("saving mail draft failed")
			return flashMsg{err: err}
		}
		return flashMsg{text: "draft saved to " + cfg.Mailbox}
	}
}
