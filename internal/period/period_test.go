package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentKey(t *testing.T) {
	tests := []struct {
		name string
		g    Granularity
		now  time.Time
		want string
	}{
		{"daily midday", Daily, time.Date(2025, 2, 18, 12, 0, 0, 0, time.UTC), "2025-02-18"},
		{"daily just before midnight", Daily, time.Date(2025, 2, 18, 23, 59, 59, 0, time.UTC), "2025-02-18"},
		{"weekly on wednesday", Weekly, time.Date(2025, 2, 19, 9, 0, 0, 0, time.UTC), "2025-02-17"},
		{"weekly on monday", Weekly, time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC), "2025-02-17"},
		{"weekly on sunday", Weekly, time.Date(2025, 2, 23, 22, 0, 0, 0, time.UTC), "2025-02-17"},
		{"weekly across year", Weekly, time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC), "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentKey(tt.g, tt.now))
		})
	}
}

func TestCurrentKeyUsesLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on the 18th is already the 19th in Tokyo.
	now := time.Date(2025, 2, 18, 20, 0, 0, 0, time.UTC).In(tokyo)

	assert.Equal(t, "2025-02-19", CurrentKey(Daily, now))
}

func TestPreviousRoundTrip(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		key := start.AddDate(0, 0, i).Format(KeyLayout)

		prev, err := Previous(key, Daily)
		require.NoError(t, err)

		back, err := Next(prev, Daily)
		require.NoError(t, err)
		assert.Equal(t, key, back)
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		key  string
		g    Granularity
		want string
	}{
		{"2025-03-01", Daily, "2025-02-28"},
		{"2024-03-01", Daily, "2024-02-29"},
		{"2025-01-01", Daily, "2024-12-31"},
		{"2025-03-31", Daily, "2025-03-30"}, // EU DST change
		{"2025-01-06", Weekly, "2024-12-30"},
		{"2025-03-31", Weekly, "2025-03-24"},
		{"2025-11-03", Weekly, "2025-10-27"}, // US DST change
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.g.String(), func(t *testing.T) {
			got, err := Previous(tt.key, tt.g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreviousInvalidKey(t *testing.T) {
	_, err := Previous("2025/01/01", Daily)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Previous("", Weekly)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestISOWeekMatchesStdlib(t *testing.T) {
	start := time.Date(2015, 12, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12*366; i++ {
		d := start.AddDate(0, 0, i)
		week, year := ISOWeek(d)
		wantYear, wantWeek := d.ISOWeek()

		require.Equal(t, wantWeek, week, "week for %s", d.Format(KeyLayout))
		require.Equal(t, wantYear, year, "year for %s", d.Format(KeyLayout))
	}
}

func TestMetadata(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want WeekInfo
	}{
		{
			name: "week 1 starts in previous december",
			key:  "2024-12-30",
			want: WeekInfo{WeekStart: "2024-12-30", WeekEnd: "2025-01-05", WeekNumber: 1, Year: 2025},
		},
		{
			name: "year starting on monday",
			key:  "2024-01-01",
			want: WeekInfo{WeekStart: "2024-01-01", WeekEnd: "2024-01-07", WeekNumber: 1, Year: 2024},
		},
		{
			name: "first days of january in week 53",
			key:  "2021-01-01",
			want: WeekInfo{WeekStart: "2020-12-28", WeekEnd: "2021-01-03", WeekNumber: 53, Year: 2020},
		},
		{
			name: "first days of january in week 52",
			key:  "2023-01-01",
			want: WeekInfo{WeekStart: "2022-12-26", WeekEnd: "2023-01-01", WeekNumber: 52, Year: 2022},
		},
		{
			name: "mid year",
			key:  "2025-02-17",
			want: WeekInfo{WeekStart: "2025-02-17", WeekEnd: "2025-02-23", WeekNumber: 8, Year: 2025},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Metadata(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatWeek(t *testing.T) {
	info, err := Metadata("2025-02-17")
	require.NoError(t, err)
	assert.Equal(t, "Week 8 - 17 Feb - 23 Feb", FormatWeek(info))

	info, err = Metadata("2024-12-30")
	require.NoError(t, err)
	assert.Equal(t, "Week 1 - 30 Dec - 5 Jan", FormatWeek(info))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "Monday, February 17", FormatDay("2025-02-17"))
	assert.Equal(t, "not-a-date", FormatDay("not-a-date"))
}
