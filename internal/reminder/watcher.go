// Package reminder watches the clock in the background and tells the UI
// when a new day or week begins and when weekly goals have gone stale.
package reminder

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/period"
)

// State represents the current state of the watcher.
type State int

const (
	StateIdle State = iota
	StateChecking
	StateError
)

// Status is a snapshot of the watcher.
type Status struct {
	State     State
	LastCheck time.Time
	Error     error
	DailyKey  string
	WeeklyKey string
	StaleDays int
}

// RolloverMsg is a tea.Msg sent when the current period of kind changes.
type RolloverMsg struct {
	Kind model.Kind
	Key  string
}

// StaleMsg is a tea.Msg sent when the weekly goals have not been touched
// for at least the configured number of days.
type StaleMsg struct {
	Days int
}

// ErrorMsg is a tea.Msg sent when a staleness check fails.
type ErrorMsg struct {
	Err error
}

// StaleChecker reports how long an owner's records have been untouched.
type StaleChecker interface {
	DaysSinceLastUpdate(ctx context.Context, owner string, now time.Time) (int, error)
}

// checkTimeout is the maximum time allowed for a single staleness check.
const checkTimeout = 10 * time.Second

// Watcher runs the reminder loop.
type Watcher struct {
	checker   StaleChecker
	clock     func() time.Time
	interval  time.Duration
	staleDays int
	log       zerolog.Logger

	mu      sync.Mutex
	owner   string
	status  Status
	running bool

	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
}

// New creates a Watcher. A zero interval defaults to one minute and a
// zero staleDays to seven.
func New(
	checker StaleChecker,
	owner string,
	interval time.Duration,
	staleDays int,
	clock func() time.Time,
	log zerolog.Logger,
) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleDays <= 0 {
		staleDays = 7
	}
	if clock == nil {
		clock = time.Now
	}

	now := clock()
	return &Watcher{
		checker:   checker,
		clock:     clock,
		interval:  interval,
		staleDays: staleDays,
		log:       log.With().Str("component", "reminder").Logger(),
		owner:     owner,
		status: Status{
			DailyKey:  period.CurrentKey(period.Daily, now),
			WeeklyKey: period.CurrentKey(period.Weekly, now),
		},
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start returns a tea.Cmd that starts the watch loop and waits for its
// first message. A stopped Watcher can be started again.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	go w.loop(stop)

	return w.WaitForNext()
}

// Stop halts the watch loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// Trigger requests an immediate check.
func (w *Watcher) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// SetOwner switches the owner whose goals are checked and resets the
// staleness state.
func (w *Watcher) SetOwner(owner string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.owner = owner
	w.status.StaleDays = 0
}

// Status returns a snapshot of the watcher state.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// WaitForNext returns a tea.Cmd that waits for the next watcher message.
// It should be called again after handling each message.
func (w *Watcher) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.check()
		case <-w.triggerCh:
			w.check()
		}
	}
}

// check detects period rollovers and staleness at the current time.
func (w *Watcher) check() {
	now := w.clock()
	daily := period.CurrentKey(period.Daily, now)
	weekly := period.CurrentKey(period.Weekly, now)

	w.mu.Lock()
	owner := w.owner
	w.status.State = StateChecking
	dailyChanged := daily != w.status.DailyKey
	weeklyChanged := weekly != w.status.WeeklyKey
	w.status.DailyKey = daily
	w.status.WeeklyKey = weekly
	w.mu.Unlock()

	if dailyChanged {
		w.log.Info().Str("period", daily).Msg("daily rollover")
		w.send(RolloverMsg{Kind: model.KindDaily, Key: daily})
	}
	if weeklyChanged {
		w.log.Info().Str("period", weekly).Msg("weekly rollover")
		w.send(RolloverMsg{Kind: model.KindWeekly, Key: weekly})
	}

	if owner == "" {
		w.setResult(0, nil, now)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	days, err := w.checker.DaysSinceLastUpdate(ctx, owner, now)
	if err != nil {
		w.log.Error().Err(err).Str("owner", owner).Msg("staleness check failed")
		w.setResult(0, err, now)
		w.send(ErrorMsg{Err: err})
		return
	}

	previous := w.setResult(days, nil, now)
	if days >= w.staleDays && days != previous {
		w.log.Info().Str("owner", owner).Int("days", days).Msg("weekly goals stale")
		w.send(StaleMsg{Days: days})
	}
}

// setResult records the outcome of a check and returns the stale day count
// seen by the previous check.
func (w *Watcher) setResult(days int, err error, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	previous := w.status.StaleDays
	w.status.LastCheck = now
	w.status.Error = err
	if err != nil {
		w.status.State = StateError
		return previous
	}
	w.status.State = StateIdle
	w.status.StaleDays = days
	return previous
}

// send delivers msg without blocking.
func (w *Watcher) send(msg tea.Msg) {
	select {
	case w.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the watcher
	}
}
