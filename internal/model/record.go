package model

import (
	"fmt"
	"time"
)

// Kind identifies which collection a record belongs to.
type Kind string

const (
	KindDaily  Kind = "daily"
	KindWeekly Kind = "weekly"
)

// ParseKind converts a string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDaily, KindWeekly:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown record kind %q", s)
	}
}

// RecordStatus is the lifecycle state of a record.
type RecordStatus string

const (
	StatusDraft     RecordStatus = "draft"
	StatusCompleted RecordStatus = "completed"
)

// WeekMeta holds the week boundaries computed when a weekly record is
// created. It is never recomputed.
type WeekMeta struct {
	WeekEnd    string `json:"weekEnd" yaml:"week_end"`
	WeekNumber int    `json:"weekNumber" yaml:"week_number"`
	Year       int    `json:"year" yaml:"year"`
}

// Record is one owner's item list for one period. PeriodKey is the date
// (daily) or the Monday of the week (weekly) as YYYY-MM-DD.
type Record struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Owner       string       `json:"owner" yaml:"owner"`
	PeriodKey   string       `json:"periodKey" yaml:"period_key"`
	Week        *WeekMeta    `json:"week,omitempty" yaml:"week,omitempty"`
	Status      RecordStatus `json:"status" yaml:"status"`
	Items       []Item       `json:"items" yaml:"items"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"created_at"`
	LastUpdated *time.Time   `json:"lastUpdated,omitempty" yaml:"last_updated,omitempty"`
}

// IsCompleted reports whether the record has been closed.
func (r *Record) IsCompleted() bool {
	return r != nil && r.Status == StatusCompleted
}

// Patch is a partial update of a record. Nil fields are left unchanged.
type Patch struct {
	Items       *[]Item
	Status      *RecordStatus
	LastUpdated *time.Time
}

// Apply writes the non-nil fields of p onto r.
func (p Patch) Apply(r *Record) {
	if p.Items != nil {
		r.Items = append([]Item(nil), (*p.Items)...)
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.LastUpdated != nil {
		t := *p.LastUpdated
		r.LastUpdated = &t
	}
}
