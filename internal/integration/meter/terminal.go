package meter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/authsecure/backend/internal/domain/valueobject"
)

const (
	filledCell = "█"
	emptyCell  = "░"

	// DefaultTerminalWidth is the bar width used when none is given.
	DefaultTerminalWidth = 40
)

var (
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))
	captionStyle = lipgloss.NewStyle().Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)
)

// Terminal renders level as a two-line meter for the CLI: the bar, then the caption.
// width is the total bar width in cells.
func (r *Renderer) Terminal(level valueobject.StrengthLevel, width int) string {
	if width <= 0 {
		width = DefaultTerminalWidth
	}
	view := r.View(level)
	if view.Empty {
		return mutedStyle.Render(strings.Repeat(emptyCell, width)) + "\n" + promptStyle.Render(view.Prompt)
	}

	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(view.Color))

	var bar string
	if r.strategy == StrategyContinuous {
		filled := width * view.Percent / 100
		bar = fill.Render(strings.Repeat(filledCell, filled)) +
			mutedStyle.Render(strings.Repeat(emptyCell, width-filled))
	} else {
		bar = segmentedBar(view, width, fill)
	}

	return bar + "\n" + captionStyle.Foreground(lipgloss.Color(view.Color)).Render(view.Caption)
}

// segmentedBar splits width into SegmentCount cells separated by single spaces.
func segmentedBar(view View, width int, fill lipgloss.Style) string {
	cell := (width - (SegmentCount - 1)) / SegmentCount
	if cell < 1 {
		cell = 1
	}

	parts := make([]string, 0, SegmentCount)
	for _, s := range view.Segments {
		if s.Filled {
			parts = append(parts, fill.Render(strings.Repeat(filledCell, cell)))
		} else {
			parts = append(parts, mutedStyle.Render(strings.Repeat(emptyCell, cell)))
		}
	}
	return strings.Join(parts, " ")
}
