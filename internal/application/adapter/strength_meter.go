// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"html/template"

	"github.com/authsecure/backend/internal/domain/valueobject"
)

// MeterSegment is one cell of a segmented strength meter.
type MeterSegment struct {
	Filled bool   `json:"filled"`
	Color  string `json:"color"`
}

// MeterView is the presentation model of a strength meter.
type MeterView struct {
	Strategy string         `json:"strategy"`
	Empty    bool           `json:"empty"`
	Prompt   string         `json:"prompt,omitempty"`
	Caption  string         `json:"caption,omitempty"`
	Label    string         `json:"label,omitempty"`
	Tier     string         `json:"tier"`
	Score    int            `json:"score"`
	Percent  int            `json:"percent"`
	Color    string         `json:"color"`
	Segments []MeterSegment `json:"segments"`
}

// FilledSegments counts the filled segments.
func (v MeterView) FilledSegments() int {
	n := 0
	for _, s := range v.Segments {
		if s.Filled {
			n++
		}
	}
	return n
}

// StrengthMeter renders strength levels for presentation.
type StrengthMeter interface {
	// View builds the presentation model for level.
	View(level valueobject.StrengthLevel) MeterView

	// HTML renders level as an HTML fragment.
	HTML(level valueobject.StrengthLevel) (template.HTML, error)
}
