package period

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the format of every period key (a calendar date).
const KeyLayout = "2006-01-02"

// ErrInvalidKey is returned when a period key is not a YYYY-MM-DD date.
var ErrInvalidKey = errors.New("invalid period key")

// Granularity identifies the length of a tracked period.
type Granularity int

const (
	Daily Granularity = iota
	Weekly
)

// String returns the lowercase name of the granularity.
func (g Granularity) String() string {
	switch g {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// Days returns the length of one period in days.
func (g Granularity) Days() int {
	if g == Weekly {
		return 7
	}
	return 1
}

// WeekInfo holds the boundaries and ISO numbering of one week.
type WeekInfo struct {
	WeekStart  string // YYYY-MM-DD (Monday)
	WeekEnd    string // YYYY-MM-DD (Sunday)
	WeekNumber int    // ISO week number (1-53)
	Year       int    // ISO week-numbering year
}

// CurrentKey returns the key of the period containing now, using the
// calendar date of now in its own location.
func CurrentKey(g Granularity, now time.Time) string {
	d := dateOf(now)
	if g == Weekly {
		d = WeekOf(d)
	}
	return d.Format(KeyLayout)
}

// ParseKey parses a period key into a midnight UTC date.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, key, err)
	}
	return t, nil
}

// Previous returns the key of the period immediately before key.
func Previous(key string, g Granularity) (string, error) {
	return shift(key, -g.Days())
}

// Next returns the key of the period immediately after key.
func Next(key string, g Granularity) (string, error) {
	return shift(key, g.Days())
}

// shift moves a key by whole days on date-only UTC values, so daylight
// saving transitions never change the result.
func shift(key string, days int) (string, error) {
	t, err := ParseKey(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(KeyLayout), nil
}

// WeekOf returns the Monday of the week containing t, at midnight in t's
// location.
func WeekOf(t time.Time) time.Time {
	d := dateOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0, Sunday = 6
	return d.AddDate(0, 0, -offset)
}

// ISOWeek returns the ISO 8601 week number and week-numbering year of t.
//
// Week 1 is the week containing the year's first Thursday. The date is
// moved to the Thursday of its own week first, so the last days of
// December and the first days of January land in the correct year.
func ISOWeek(t time.Time) (week, year int) {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	dayNr := (int(d.Weekday()) + 6) % 7
	thursday := d.AddDate(0, 0, 3-dayNr)

	firstThursday := time.Date(thursday.Year(), time.January, 4, 0, 0, 0, 0, time.UTC)
	firstThursday = firstThursday.AddDate(0, 0, 3-(int(firstThursday.Weekday())+6)%7)

	days := int(thursday.Sub(firstThursday).Hours() / 24)
	return 1 + days/7, thursday.Year()
}

// Metadata returns the boundaries and ISO numbering of the week that
// contains weekStartKey. Keys that are not Mondays are normalized to the
// Monday of their week.
func Metadata(weekStartKey string) (WeekInfo, error) {
	t, err := ParseKey(weekStartKey)
	if err != nil {
		return WeekInfo{}, err
	}

	monday := WeekOf(t)
	sunday := monday.AddDate(0, 0, 6)
	week, year := ISOWeek(monday)

	return WeekInfo{
		WeekStart:  monday.Format(KeyLayout),
		WeekEnd:    sunday.Format(KeyLayout),
		WeekNumber: week,
		Year:       year,
	}, nil
}

// dateOf truncates t to midnight of its calendar date in t's location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
