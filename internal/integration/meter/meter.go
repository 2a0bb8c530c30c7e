// Package meter renders password strength levels as meters for the web screens and the terminal.
package meter

import (
	"strings"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/valueobject"
)

// Strategy selects how the meter fills.
type Strategy string

const (
	// StrategySegmented fills one of five segments per satisfied rule.
	StrategySegmented Strategy = "segmented"
	// StrategyContinuous fills a single bar to the strength percent.
	StrategyContinuous Strategy = "continuous"
)

// SegmentCount is the number of segments in the segmented meter.
const SegmentCount = 5

// EmptyPrompt is shown instead of a meter when no password was entered.
const EmptyPrompt = "Enter a password to check its strength."

// Tier colours, shared by the HTML and terminal renderings.
const (
	ColorVeryWeak   = "#ef4444"
	ColorWeak       = "#f97316"
	ColorMedium     = "#eab308"
	ColorStrong     = "#3b82f6"
	ColorVeryStrong = "#22c55e"
	ColorMuted      = "#e5e7eb"
)

// ParseStrategy maps a config value to a Strategy. Unknown values fall back to segmented.
func ParseStrategy(value string) Strategy {
	if Strategy(strings.ToLower(strings.TrimSpace(value))) == StrategyContinuous {
		return StrategyContinuous
	}
	return StrategySegmented
}

// ColorFor returns the colour of a tier. The empty tier is muted.
func ColorFor(tier valueobject.StrengthTier) string {
	switch tier {
	case valueobject.TierVeryWeak:
		return ColorVeryWeak
	case valueobject.TierWeak:
		return ColorWeak
	case valueobject.TierMedium:
		return ColorMedium
	case valueobject.TierStrong:
		return ColorStrong
	case valueobject.TierVeryStrong:
		return ColorVeryStrong
	default:
		return ColorMuted
	}
}

// Segment is one cell of the segmented meter.
type Segment = adapter.MeterSegment

// View is the presentation model of a meter.
type View = adapter.MeterView

// Renderer turns strength levels into meters. It is safe for concurrent use.
type Renderer struct {
	strategy Strategy
}

var _ adapter.StrengthMeter = (*Renderer)(nil)

// NewRenderer creates a Renderer for the given strategy.
func NewRenderer(strategy Strategy) *Renderer {
	if strategy != StrategyContinuous {
		strategy = StrategySegmented
	}
	return &Renderer{strategy: strategy}
}

// Strategy returns the renderer's fill strategy.
func (r *Renderer) Strategy() Strategy {
	return r.strategy
}

// View builds the presentation model for level.
func (r *Renderer) View(level valueobject.StrengthLevel) View {
	view := View{
		Strategy: string(r.strategy),
		Tier:     level.Tier.String(),
		Color:    ColorMuted,
		Segments: make([]Segment, SegmentCount),
	}
	for i := range view.Segments {
		view.Segments[i].Color = ColorMuted
	}

	if level.IsEmpty() {
		view.Empty = true
		view.Prompt = EmptyPrompt
		return view
	}

	color := ColorFor(level.Tier)
	view.Caption = "Password strength: " + level.Label
	view.Label = level.Label
	view.Score = level.Score
	view.Percent = level.Percent
	view.Color = color

	// Percent is a multiple of 20, so this is exact.
	filled := level.Percent / 20
	for i := 0; i < filled && i < SegmentCount; i++ {
		view.Segments[i] = Segment{Filled: true, Color: color}
	}
	return view
}
