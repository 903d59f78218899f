package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
)

type stubLister struct {
	records []model.Record
	err     error
}

func (s stubLister) List(context.Context, string) ([]model.Record, error) {
	return s.records, s.err
}

func TestLoadSkipsCurrentPeriod(t *testing.T) {
	src := stubLister{records: []model.Record{
		{Kind: model.KindWeekly, PeriodKey: "2025-02-17"},
		{Kind: model.KindWeekly, PeriodKey: "2025-02-10"},
		{Kind: model.KindWeekly, PeriodKey: "2025-02-03"},
	}}

	msg := Load(src, model.KindWeekly, "carlo", "2025-02-17")()

	loaded, ok := msg.(LoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, "2025-02-10", loaded.Records[0].PeriodKey)
}

func TestUpdateLoadedAndPreview(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(LoadedMsg{Kind: model.KindDaily, Records: []model.Record{
		{Kind: model.KindDaily, PeriodKey: "2025-02-18", Status: model.StatusCompleted,
			Items: []model.Item{{Text: "walk", Status: model.OutcomeGreen}}},
	}})

	rec, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "2025-02-18", rec.PeriodKey)

	m.preview = true
	assert.Contains(t, m.View(), "🟢 walk")
}

func TestViewShowsLoadError(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)

	msg := Load(stubLister{err: errors.New("offline")}, model.KindDaily, "carlo", "2025-02-19")()
	m, _ = m.Update(msg)

	assert.Contains(t, m.View(), "offline")
}

func TestRecordItemDescription(t *testing.T) {
	it := recordItem{rec: model.Record{
		Status: model.StatusCompleted,
		Items: []model.Item{
			{Text: "a", Status: model.OutcomeGreen},
			{Text: "b", Status: model.OutcomeGreen},
			{Text: "c", Status: model.OutcomeRed},
		},
	}}

	assert.Equal(t, "completed · 3 items · 2🟢 · 1🔴", it.Description())
}
