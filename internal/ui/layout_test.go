package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 1).ContentHeight())
}

func TestBarsSpanWidth(t *testing.T) {
	l := NewLayout(60, 10)

	header := l.RenderHeader("Tracker", "Daily")
	assert.Equal(t, 60, lipgloss.Width(header))
	assert.Contains(t, header, "Tracker")
	assert.Contains(t, header, "Daily")

	status := l.RenderStatusBar("q quit")
	assert.Equal(t, 60, lipgloss.Width(status))
}

func TestRenderWithFrameFixesHeight(t *testing.T) {
	l := NewLayout(40, 8)

	out := l.RenderWithFrame("head", "one\ntwo", "foot")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "head", strings.TrimSpace(lines[0]))
	assert.Equal(t, "foot", strings.TrimSpace(lines[7]))

	long := strings.Repeat("x\n", 20)
	assert.Len(t, strings.Split(l.RenderWithFrame("h", long, "f"), "\n"), 8)
}
