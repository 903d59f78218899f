package model

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is the traffic-light result assigned to an item once its period
// is completed. The zero value means no outcome has been assigned.
type Outcome string

const (
	OutcomeUnset  Outcome = ""
	OutcomeGreen  Outcome = "green"
	OutcomeYellow Outcome = "yellow"
	OutcomeRed    Outcome = "red"
)

// ParseOutcome converts user input into an Outcome. "unset" and "none"
// clear the outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "green", "g":
		return OutcomeGreen, nil
	case "yellow", "y":
		return OutcomeYellow, nil
	case "red", "r":
		return OutcomeRed, nil
	case "", "unset", "none", "u":
		return OutcomeUnset, nil
	default:
		return OutcomeUnset, fmt.Errorf("unknown outcome %q", s)
	}
}

// Emoji returns the share glyph for the outcome, or "" when unset.
func (o Outcome) Emoji() string {
	switch o {
	case OutcomeGreen:
		return "🟢"
	case OutcomeYellow:
		return "🟡"
	case OutcomeRed:
		return "🔴"
	default:
		return ""
	}
}

// Section groups daily items. The zero value means the item is unsectioned.
type Section string

const (
	SectionNone     Section = ""
	SectionPersonal Section = "personal"
	SectionWork     Section = "work"
)

// ParseSection converts user input into a Section.
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SectionNone, nil
	case "personal", "p":
		return SectionPersonal, nil
	case "work", "w":
		return SectionWork, nil
	default:
		return SectionNone, fmt.Errorf("unknown section %q", s)
	}
}

// Next cycles none -> personal -> work -> none.
func (s Section) Next() Section {
	switch s {
	case SectionNone:
		return SectionPersonal
	case SectionPersonal:
		return SectionWork
	default:
		return SectionNone
	}
}

// ErrItemIndex is returned when an item index is outside the list.
var ErrItemIndex = errors.New("item index out of range")

// Item is one line of a daily list or weekly goal list.
type Item struct {
	Text        string  `json:"text" yaml:"text"`
	Status      Outcome `json:"status,omitempty" yaml:"status,omitempty"`
	Explanation string  `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Section     Section `json:"section,omitempty" yaml:"section,omitempty"`

	// CarriedOver marks weekly goals seeded from the previous week.
	CarriedOver bool `json:"carriedOver,omitempty" yaml:"carried_over,omitempty"`
}

// WithOutcome returns a copy of the item with outcome o. The explanation
// only survives on yellow items.
func (it Item) WithOutcome(o Outcome) Item {
	it.Status = o
	if o != OutcomeYellow {
		it.Explanation = ""
	}
	return it
}

// NormalizeItems returns a copy of items where only yellow items keep an
// explanation.
func NormalizeItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if it.Status != OutcomeYellow {
			it.Explanation = ""
		}
		out[i] = it
	}
	return out
}

// AppendItem returns a copy of items with a new unresolved item at the end.
func AppendItem(items []Item, text string, section Section) []Item {
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return append(out, Item{Text: strings.TrimSpace(text), Section: section})
}

// RemoveItem returns a copy of items without the item at index i.
func RemoveItem(items []Item, i int) ([]Item, error) {
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("removing item %d: %w", i+1, ErrItemIndex)
	}
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}

// EditItemText returns a copy of items with the text of item i replaced.
func EditItemText(items []Item, i int, text string) ([]Item, error) {
	return modify(items, i, func(it *Item) {
		it.Text = strings.TrimSpace(text)
	})
}

// SetOutcome returns a copy of items with item i set to outcome o.
func SetOutcome(items []Item, i int, o Outcome) ([]Item, error) {
	return modify(items, i, func(it *Item) {
		*it = it.WithOutcome(o)
	})
}

// SetExplanation returns a copy of items with the explanation of item i
// replaced. Non-yellow items never hold an explanation.
func SetExplanation(items []Item, i int, explanation string) ([]Item, error) {
	return modify(items, i, func(it *Item) {
		if it.Status == OutcomeYellow {
			it.Explanation = strings.TrimSpace(explanation)
		}
	})
}

// SetSection returns a copy of items with item i moved to section s.
func SetSection(items []Item, i int, s Section) ([]Item, error) {
	return modify(items, i, func(it *Item) {
		it.Section = s
	})
}

func modify(items []Item, i int, fn func(*Item)) ([]Item, error) {
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("updating item %d: %w", i+1, ErrItemIndex)
	}
	out := make([]Item, len(items))
	copy(out, items)
	fn(&out[i])
	return out, nil
}
