package period

import "fmt"

// FormatWeek renders a week label such as "Week 4 - 16 Feb - 22 Feb".
func FormatWeek(info WeekInfo) string {
	start, err := ParseKey(info.WeekStart)
	if err != nil {
		return fmt.Sprintf("Week %d", info.WeekNumber)
	}
	end, err := ParseKey(info.WeekEnd)
	if err != nil {
		end = start.AddDate(0, 0, 6)
	}

	return fmt.Sprintf("Week %d - %d %s - %d %s",
		info.WeekNumber,
		start.Day(), start.Format("Jan"),
		end.Day(), end.Format("Jan"),
	)
}

// FormatDay renders a daily key as "Monday, February 16". Malformed keys
// are returned unchanged.
func FormatDay(key string) string {
	t, err := ParseKey(key)
	if err != nil {
		return key
	}
	return t.Format("Monday, January 2")
}
