package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{Text: "write report", Section: SectionWork},
		{Text: "gym", Section: SectionPersonal},
		{Text: "call bank"},
	}
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		in      string
		want    Outcome
		wantErr bool
	}{
		{"green", OutcomeGreen, false},
		{"Y", OutcomeYellow, false},
		{" red ", OutcomeRed, false},
		{"unset", OutcomeUnset, false},
		{"none", OutcomeUnset, false},
		{"", OutcomeUnset, false},
		{"blue", OutcomeUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutcome(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithOutcomeDropsExplanation(t *testing.T) {
	it := Item{Text: "ship", Status: OutcomeYellow, Explanation: "waiting on review"}

	assert.Equal(t, "waiting on review", it.WithOutcome(OutcomeYellow).Explanation)
	assert.Empty(t, it.WithOutcome(OutcomeGreen).Explanation)
	assert.Empty(t, it.WithOutcome(OutcomeUnset).Explanation)
	// original untouched
	assert.Equal(t, OutcomeYellow, it.Status)
}

func TestNormalizeItems(t *testing.T) {
	items := []Item{
		{Text: "a", Status: OutcomeGreen, Explanation: "stale"},
		{Text: "b", Status: OutcomeYellow, Explanation: "half done"},
		{Text: "c", Explanation: "never set"},
	}

	got := NormalizeItems(items)

	assert.Empty(t, got[0].Explanation)
	assert.Equal(t, "half done", got[1].Explanation)
	assert.Empty(t, got[2].Explanation)
	assert.Equal(t, "stale", items[0].Explanation, "input must not be mutated")
}

func TestAppendItem(t *testing.T) {
	items := sampleItems()
	got := AppendItem(items, "  read book ", SectionPersonal)

	require.Len(t, got, 4)
	assert.Equal(t, Item{Text: "read book", Section: SectionPersonal}, got[3])
	assert.Len(t, items, 3)
}

func TestRemoveItem(t *testing.T) {
	got, err := RemoveItem(sampleItems(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"write report", "call bank"}, texts(got))

	_, err = RemoveItem(sampleItems(), 3)
	assert.ErrorIs(t, err, ErrItemIndex)

	_, err = RemoveItem(sampleItems(), -1)
	assert.ErrorIs(t, err, ErrItemIndex)
}

func TestEditItemTextPreservesOrder(t *testing.T) {
	items := sampleItems()
	got, err := EditItemText(items, 2, "call the bank")
	require.NoError(t, err)

	assert.Equal(t, []string{"write report", "gym", "call the bank"}, texts(got))
	assert.Equal(t, "call bank", items[2].Text)
}

func TestSetExplanationOnlyForYellow(t *testing.T) {
	items, err := SetOutcome(sampleItems(), 0, OutcomeYellow)
	require.NoError(t, err)

	items, err = SetExplanation(items, 0, "blocked")
	require.NoError(t, err)
	assert.Equal(t, "blocked", items[0].Explanation)

	items, err = SetExplanation(items, 1, "ignored")
	require.NoError(t, err)
	assert.Empty(t, items[1].Explanation)

	items, err = SetOutcome(items, 0, OutcomeRed)
	require.NoError(t, err)
	assert.Empty(t, items[0].Explanation)
}

func TestSetSection(t *testing.T) {
	got, err := SetSection(sampleItems(), 2, SectionWork)
	require.NoError(t, err)
	assert.Equal(t, SectionWork, got[2].Section)

	_, err = SetSection(nil, 0, SectionWork)
	assert.ErrorIs(t, err, ErrItemIndex)
}

func TestSectionNext(t *testing.T) {
	assert.Equal(t, SectionPersonal, SectionNone.Next())
	assert.Equal(t, SectionWork, SectionPersonal.Next())
	assert.Equal(t, SectionNone, SectionWork.Next())
}

func TestPatchApply(t *testing.T) {
	rec := &Record{Status: StatusDraft, Items: sampleItems()}
	status := StatusCompleted

	Patch{Status: &status}.Apply(rec)

	assert.Equal(t, StatusCompleted, rec.Status)
	assert.Len(t, rec.Items, 3)
	assert.Nil(t, rec.LastUpdated)
}

func texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}
