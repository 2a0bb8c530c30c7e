package password

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authsecure/backend/internal/domain/valueobject"
	"github.com/authsecure/backend/internal/integration/meter"
)

type recordingMetrics struct {
	tiers []string
}

func (m *recordingMetrics) StrengthChecked(tier string) { m.tiers = append(m.tiers, tier) }

func (m *recordingMetrics) AuthRequest(string, string) {}

func (m *recordingMetrics) EmailDelivery(string, string) {}

func TestCheckStrengthUseCase_Execute(t *testing.T) {
	tests := []struct {
		password string
		score    int
		tier     valueobject.StrengthTier
		filled   int
	}{
		{password: "", score: 0, tier: valueobject.TierEmpty, filled: 0},
		{password: "abc", score: 1, tier: valueobject.TierVeryWeak, filled: 1},
		{password: "Abcdefgh", score: 3, tier: valueobject.TierMedium, filled: 3},
		{password: "Abcdefg1!", score: 5, tier: valueobject.TierVeryStrong, filled: 5},
	}

	metrics := &recordingMetrics{}
	uc := NewCheckStrengthUseCase(meter.NewRenderer(meter.StrategySegmented), metrics)

	for _, tt := range tests {
		out := uc.Execute(context.Background(), CheckStrengthInput{Password: tt.password})

		assert.Equal(t, tt.score, out.Level.Score, tt.password)
		assert.Equal(t, tt.tier, out.Level.Tier, tt.password)
		assert.Equal(t, tt.filled, out.Meter.FilledSegments(), tt.password)
		assert.Equal(t, "segmented", out.Meter.Strategy)
	}

	assert.Equal(t, []string{"empty", "very_weak", "medium", "very_strong"}, metrics.tiers)
}

func TestCheckStrengthUseCase_ExecuteHTML(t *testing.T) {
	uc := NewCheckStrengthUseCase(meter.NewRenderer(meter.StrategyContinuous), nil)

	html, err := uc.ExecuteHTML(context.Background(), CheckStrengthInput{Password: "Abcdefg1"})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Password strength: Strong")
	assert.Contains(t, string(html), "width: 80%")
}
