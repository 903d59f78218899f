package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps bordered content areas such as the history preview.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SectionStyle renders daily section headings.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Underline(true).
	Foreground(ColorMagenta).
	PaddingLeft(1)

// BannerStyle renders the stale goals reminder.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorYellow).
	PaddingLeft(1)

// ErrorStyle renders error flashes in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// MutedStyle renders secondary text such as explanations.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// StatusBadge returns the draft/completed badge for a record status.
func StatusBadge(status model.RecordStatus) string {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusCompleted:
		return base.Foreground(ColorWhite).Background(ColorGreen).Render("Completed")
	default:
		return base.Foreground(ColorWhite).Background(ColorGray).Render("Draft")
	}
}

// OutcomeStyle returns a color-coded style for the given item outcome.
func OutcomeStyle(o model.Outcome) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch o {
	case model.OutcomeGreen:
		return base.Foreground(ColorGreen)
	case model.OutcomeYellow:
		return base.Foreground(ColorYellow)
	case model.OutcomeRed:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// UserStyle returns a badge style in the user's configured color.
func UserStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(ColorWhite)
	if color == "" {
		return base.Background(ColorBlue)
	}
	return base.Background(lipgloss.Color(color))
}
