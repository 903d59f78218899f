// Package ui holds the screen frame shared by every tracker view.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tracker/internal/theme"
)

// Layout splits the terminal into a one-line header, the content area and
// a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// chromeHeight is the number of lines taken by the header and status bar.
const chromeHeight = 2

func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight never goes below zero, even on tiny terminals.
func (l Layout) ContentHeight() int {
	return max(l.Height-chromeHeight, 0)
}

// RenderHeader shows the app title and user badge on the left and the
// period and reminder state on the right.
func (l Layout) RenderHeader(title, status string) string {
	return l.bar(theme.HeaderStyle, title, status)
}

// RenderStatusBar shows key hints or the latest flash message.
func (l Layout) RenderStatusBar(hints string) string {
	return l.bar(theme.StatusBarStyle, hints, "")
}

// bar renders left and right in style, filling the gap between them with
// the style's background so the bar spans the full width.
func (l Layout) bar(style lipgloss.Style, left, right string) string {
	parts := []string{style.Render(left)}
	if right != "" {
		parts = append(parts, style.Render(right))
	}

	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	fill := lipgloss.NewStyle().
		Width(max(l.Width-used, 0)).
		Background(style.GetBackground()).
		Render("")

	if len(parts) == 1 {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts[0], fill)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts[0], fill, parts[1])
}

// RenderWithFrame stacks header, content and status bar. The content is
// padded or clipped to exactly ContentHeight lines.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	h := l.ContentHeight()
	content = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
