// Package share renders records as chat-ready text and delivers it to the
// clipboard or to an e-mail drafts folder.
package share

import (
	"fmt"
	"strings"

	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/period"
)

// sectionOrder lists the sections in the order they are rendered.
var sectionOrder = []model.Section{model.SectionNone, model.SectionPersonal, model.SectionWork}

var sectionTitles = map[model.Section]string{
	model.SectionPersonal: "_Personal_",
	model.SectionWork:     "_Work_",
}

// Label returns the human period label of rec, such as
// "Monday, February 17" or "Week 8 - 17 Feb - 23 Feb".
func Label(rec *model.Record) string {
	if rec.Kind != model.KindWeekly {
		return period.FormatDay(rec.PeriodKey)
	}

	info := period.WeekInfo{WeekStart: rec.PeriodKey}
	if rec.Week != nil {
		info.WeekEnd = rec.Week.WeekEnd
		info.WeekNumber = rec.Week.WeekNumber
		info.Year = rec.Week.Year
	} else if meta, err := period.Metadata(rec.PeriodKey); err == nil {
		info = meta
	}
	return period.FormatWeek(info)
}

// Title returns the bold-free header text, for example
// "Week 8 - 17 Feb - 23 Feb - Update".
func Title(rec *model.Record) string {
	suffix := "Goals"
	if rec.IsCompleted() {
		suffix = "Update"
	}
	return Label(rec) + " - " + suffix
}

// Order returns the indexes of items in the order Format renders them:
// unsectioned items first, then personal, then work. Position n-1 of the
// result is the item shown as number n.
func Order(items []model.Item) []int {
	out := make([]int, 0, len(items))
	for _, sec := range sectionOrder {
		for i, it := range items {
			if it.Section == sec {
				out = append(out, i)
			}
		}
	}
	return out
}

// Format renders rec in WhatsApp markup. Lines are numbered while the
// record is a draft; once completed, items with an outcome are prefixed by
// its emoji instead. Daily items are grouped by section, numbering runs
// across groups.
func Format(rec *model.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", Title(rec))

	completed := rec.IsCompleted()
	var current model.Section
	for n, i := range Order(rec.Items) {
		it := rec.Items[i]
		if n == 0 || it.Section != current {
			current = it.Section
			b.WriteString("\n")
			if title, ok := sectionTitles[it.Section]; ok {
				b.WriteString(title + "\n")
			}
		}

		prefix := fmt.Sprintf("%d.", n+1)
		if emoji := it.Status.Emoji(); completed && emoji != "" {
			prefix = emoji
		}

		explanation := ""
		if it.Status == model.OutcomeYellow && it.Explanation != "" {
			explanation = " (" + it.Explanation + ")"
		}

		fmt.Fprintf(&b, "%s %s%s\n", prefix, it.Text, explanation)
	}

	return strings.TrimRight(b.String(), "\n")
}
