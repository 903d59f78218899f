package lifecycle

import (
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/period"
)

// weeklyHistoryLimit caps weekly history listings.
const weeklyHistoryLimit = 12

// CarryOverFunc selects the items that seed a new period from the record
// of the period before it. prev is nil when no such record exists.
type CarryOverFunc func(prev *model.Record) []model.Item

// Policy configures a Tracker for one period granularity.
type Policy struct {
	Kind        model.Kind
	Granularity period.Granularity

	// HistoryLimit caps List. Zero lists everything.
	HistoryLimit int

	CarryOver CarryOverFunc

	// WithMeta stores week boundaries on created records.
	WithMeta bool

	// StampUpdates records LastUpdated on creation and on every write.
	StampUpdates bool
}

// DailyPolicy tracks one list per calendar date. Every item that did not
// end green moves to the next day.
var DailyPolicy = Policy{
	Kind:        model.KindDaily,
	Granularity: period.Daily,
	CarryOver:   carryUnfinished,
}

// WeeklyPolicy tracks one goal list per ISO week. A reviewed week passes on
// its yellow and red goals; an abandoned draft passes on everything.
var WeeklyPolicy = Policy{
	Kind:         model.KindWeekly,
	Granularity:  period.Weekly,
	HistoryLimit: weeklyHistoryLimit,
	CarryOver:    carryFlagged,
	WithMeta:     true,
	StampUpdates: true,
}

// PolicyFor returns the policy tracking records of kind k.
func PolicyFor(k model.Kind) Policy {
	if k == model.KindWeekly {
		return WeeklyPolicy
	}
	return DailyPolicy
}

func carryUnfinished(prev *model.Record) []model.Item {
	if prev == nil {
		return nil
	}

	var out []model.Item
	for _, it := range prev.Items {
		if it.Status == model.OutcomeGreen {
			continue
		}
		out = append(out, model.Item{Text: it.Text, Section: it.Section})
	}
	return out
}

func carryFlagged(prev *model.Record) []model.Item {
	if prev == nil || len(prev.Items) == 0 {
		return nil
	}

	reviewed := prev.Status == model.StatusCompleted

	var out []model.Item
	for _, it := range prev.Items {
		if reviewed && it.Status != model.OutcomeYellow && it.Status != model.OutcomeRed {
			continue
		}
		out = append(out, model.Item{Text: it.Text, CarriedOver: true})
	}
	return out
}
