package periodview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
)

func TestSetRecordUsesShareOrder(t *testing.T) {
	m := New(model.KindDaily, keys.DefaultKeyMap(), 80, 24)
	m.SetRecord(&model.Record{
		Kind:      model.KindDaily,
		PeriodKey: "2025-02-19",
		Status:    model.StatusDraft,
		Items: []model.Item{
			{Text: "report", Section: model.SectionWork},
			{Text: "gym"},
		},
	})

	idx, it, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "gym", it.Text)

	m.list.CursorDown()
	idx, it, _ = m.Selected()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "report", it.Text)
}

func TestSetRecordTogglesBindings(t *testing.T) {
	k := keys.DefaultKeyMap()
	m := New(model.KindWeekly, k, 80, 24)

	m.SetRecord(&model.Record{Kind: model.KindWeekly, PeriodKey: "2025-02-17", Status: model.StatusDraft})
	assert.True(t, k.Add.Enabled())
	assert.False(t, k.Green.Enabled())

	m.SetRecord(&model.Record{Kind: model.KindWeekly, PeriodKey: "2025-02-17", Status: model.StatusCompleted})
	assert.False(t, k.Add.Enabled())
	assert.True(t, k.Green.Enabled())
	assert.True(t, k.Revert.Enabled())
}

func TestRenderEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  []string
	}{
		{
			name:  "draft is numbered",
			entry: Entry{Number: 3, Item: model.Item{Text: "read"}},
			want:  []string{"3.", "read"},
		},
		{
			name:  "completed shows outcome and explanation",
			entry: Entry{Number: 1, Completed: true, Item: model.Item{Text: "run", Status: model.OutcomeYellow, Explanation: "rain"}},
			want:  []string{"🟡", "run", "(rain)"},
		},
		{
			name:  "section and carry over markers",
			entry: Entry{Number: 2, Item: model.Item{Text: "ship", Section: model.SectionWork, CarriedOver: true}},
			want:  []string{"2.", "ship", "[work]", "↻"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderEntry(tt.entry, false)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestViewShowsStaleBannerOnWeekly(t *testing.T) {
	m := New(model.KindWeekly, keys.DefaultKeyMap(), 80, 24)
	m.SetRecord(&model.Record{
		Kind:      model.KindWeekly,
		PeriodKey: "2025-02-17",
		Week:      &model.WeekMeta{WeekEnd: "2025-02-23", WeekNumber: 8, Year: 2025},
		Status:    model.StatusDraft,
	})
	m.SetStaleDays(9)

	view := m.View()
	assert.Contains(t, view, "Week 8 - 17 Feb - 23 Feb - Goals")
	assert.Contains(t, view, "not updated for 9 days")
	assert.Contains(t, view, "Press a to add an item.")
}
