package help

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/tracker/internal/keys"
	"github.com/nhle/tracker/internal/model"
)

func TestViewFollowsRecordStatus(t *testing.T) {
	k := keys.DefaultKeyMap()
	m := New(k, 120, 40)

	k.DraftMode(true)
	m.SetContext(model.KindDaily, model.StatusDraft)
	draft := m.View()
	assert.Contains(t, draft, "daily record is a draft")
	assert.Contains(t, draft, "add item")
	assert.NotContains(t, draft, "revert to draft")
	assert.Contains(t, draft, "[section]")

	k.DraftMode(false)
	m.SetContext(model.KindWeekly, model.StatusCompleted)
	review := m.View()
	assert.Contains(t, review, "weekly record is completed")
	assert.Contains(t, review, "revert to draft")
	assert.NotContains(t, review, "add item")
	assert.NotContains(t, review, "[section]")
	assert.Contains(t, review, "carried over")
}
