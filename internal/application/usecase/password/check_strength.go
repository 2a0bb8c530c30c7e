// Package password contains password-related use cases.
package password

import (
	"context"
	"html/template"

	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/domain/valueobject"
)

// CheckStrengthInput represents the input for a strength check.
type CheckStrengthInput struct {
	Password string
}

// CheckStrengthOutput represents the output of a strength check.
type CheckStrengthOutput struct {
	Level valueobject.StrengthLevel
	Meter adapter.MeterView
}

// CheckStrengthUseCase classifies a password and builds its meter view.
type CheckStrengthUseCase struct {
	meter   adapter.StrengthMeter
	metrics adapter.MetricsRecorder
}

// NewCheckStrengthUseCase creates a new CheckStrengthUseCase instance.
func NewCheckStrengthUseCase(meter adapter.StrengthMeter, metrics adapter.MetricsRecorder) *CheckStrengthUseCase {
	if metrics == nil {
		metrics = adapter.NoopMetrics{}
	}
	return &CheckStrengthUseCase{
		meter:   meter,
		metrics: metrics,
	}
}

// Execute classifies the password. It cannot fail.
func (uc *CheckStrengthUseCase) Execute(_ context.Context, input CheckStrengthInput) *CheckStrengthOutput {
	level := valueobject.ClassifyPassword(input.Password)
	uc.metrics.StrengthChecked(level.Tier.String())

	return &CheckStrengthOutput{
		Level: level,
		Meter: uc.meter.View(level),
	}
}

// ExecuteHTML classifies the password and renders the meter fragment.
func (uc *CheckStrengthUseCase) ExecuteHTML(ctx context.Context, input CheckStrengthInput) (template.HTML, error) {
	out := uc.Execute(ctx, input)
	return uc.meter.HTML(out.Level)
}
