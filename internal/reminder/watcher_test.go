package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/tests/testutil"
)

type fakeChecker struct {
	days int
	err  error
}

func (f *fakeChecker) DaysSinceLastUpdate(context.Context, string, time.Time) (int, error) {
	return f.days, f.err
}

func drain(w *Watcher) []any {
	var msgs []any
	for {
		select {
		case msg := <-w.resultCh:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func TestCheckEmitsRollover(t *testing.T) {
	// Sunday evening; the next check lands on Monday.
	clock := testutil.NewClock(time.Date(2025, 2, 23, 23, 30, 0, 0, time.UTC))
	w := New(&fakeChecker{}, "carlo", time.Minute, 7, clock.Now, zerolog.Nop())

	w.check()
	assert.Empty(t, drain(w))

	clock.Advance(time.Hour)
	w.check()

	msgs := drain(w)
	require.Len(t, msgs, 2)
	assert.Equal(t, RolloverMsg{Kind: model.KindDaily, Key: "2025-02-24"}, msgs[0])
	assert.Equal(t, RolloverMsg{Kind: model.KindWeekly, Key: "2025-02-24"}, msgs[1])

	st := w.Status()
	assert.Equal(t, "2025-02-24", st.DailyKey)
	assert.Equal(t, StateIdle, st.State)
}

func TestCheckEmitsStaleOncePerDayCount(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 2, 19, 12, 0, 0, 0, time.UTC))
	checker := &fakeChecker{days: 3}
	w := New(checker, "carlo", time.Minute, 7, clock.Now, zerolog.Nop())

	w.check()
	assert.Empty(t, drain(w))

	checker.days = 8
	w.check()
	assert.Equal(t, []any{StaleMsg{Days: 8}}, drain(w))

	w.check()
	assert.Empty(t, drain(w), "same day count is not repeated")

	checker.days = 9
	w.check()
	assert.Equal(t, []any{StaleMsg{Days: 9}}, drain(w))
}

func TestCheckReportsErrors(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 2, 19, 12, 0, 0, 0, time.UTC))
	boom := errors.New("store down")
	w := New(&fakeChecker{err: boom}, "carlo", time.Minute, 7, clock.Now, zerolog.Nop())

	w.check()

	assert.Equal(t, []any{ErrorMsg{Err: boom}}, drain(w))
	st := w.Status()
	assert.Equal(t, StateError, st.State)
	assert.ErrorIs(t, st.Error, boom)
}

func TestCheckWithoutOwnerSkipsStaleness(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 2, 19, 12, 0, 0, 0, time.UTC))
	w := New(&fakeChecker{days: 30}, "", time.Minute, 7, clock.Now, zerolog.Nop())

	w.check()
	assert.Empty(t, drain(w))

	w.SetOwner("stefania")
	w.check()
	assert.Equal(t, []any{StaleMsg{Days: 30}}, drain(w))
}

func TestStartStop(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 2, 19, 12, 0, 0, 0, time.UTC))
	w := New(&fakeChecker{days: 10}, "carlo", time.Hour, 7, clock.Now, zerolog.Nop())

	cmd := w.Start()
	require.NotNil(t, cmd)
	assert.Nil(t, w.Start(), "second start is a no-op")

	assert.Equal(t, StaleMsg{Days: 10}, cmd())

	w.Stop()
	w.Stop()
}

func TestRestartAfterStop(t *testing.T) {
	clock := testutil.NewClock(time.Date(2025, 2, 19, 12, 0, 0, 0, time.UTC))
	checker := &fakeChecker{days: 10}
	w := New(checker, "carlo", time.Hour, 7, clock.Now, zerolog.Nop())

	cmd := w.Start()
	require.NotNil(t, cmd)
	assert.Equal(t, StaleMsg{Days: 10}, cmd())
	w.Stop()

	checker.days = 11
	cmd = w.Start()
	require.NotNil(t, cmd, "a stopped watcher starts again")
	assert.Equal(t, StaleMsg{Days: 11}, cmd(), "the new loop runs its first check")
	w.Stop()
}
