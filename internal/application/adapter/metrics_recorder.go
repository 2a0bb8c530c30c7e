// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

// MetricsRecorder receives counters from the use cases.
type MetricsRecorder interface {
	// StrengthChecked counts one classification in the given tier.
	StrengthChecked(tier string)

	// AuthRequest counts one auth operation with its outcome ("success" or an error code).
	AuthRequest(operation, outcome string)

	// EmailDelivery counts one delivery attempt of a template ("sent", "retry" or "failed").
	EmailDelivery(template, outcome string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

// StrengthChecked implements MetricsRecorder.
func (NoopMetrics) StrengthChecked(string) {}

// AuthRequest implements MetricsRecorder.
func (NoopMetrics) AuthRequest(string, string) {}

// EmailDelivery implements MetricsRecorder.
func (NoopMetrics) EmailDelivery(string, string) {}
