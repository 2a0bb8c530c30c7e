// Package metrics exposes Prometheus counters for AuthSecure.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/authsecure/backend/internal/application/adapter"
)

// Recorder holds the application counters and implements adapter.MetricsRecorder.
type Recorder struct {
	StrengthChecksTotal *prometheus.CounterVec
	AuthRequestsTotal   *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	EmailsTotal         *prometheus.CounterVec
}

var _ adapter.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates and registers the AuthSecure counters.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		StrengthChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsecure_password_strength_checks_total",
				Help: "Total number of password strength classifications by tier",
			},
			[]string{"tier"},
		),
		AuthRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsecure_auth_requests_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsecure_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		EmailsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsecure_email_deliveries_total",
				Help: "Total number of email delivery attempts by template and outcome",
			},
			[]string{"template", "outcome"},
		),
	}

	reg.MustRegister(r.StrengthChecksTotal)
	reg.MustRegister(r.AuthRequestsTotal)
	reg.MustRegister(r.HTTPRequestsTotal)
	reg.MustRegister(r.EmailsTotal)

	return r
}

// StrengthChecked implements adapter.MetricsRecorder.
func (r *Recorder) StrengthChecked(tier string) {
	r.StrengthChecksTotal.WithLabelValues(tier).Inc()
}

// AuthRequest implements adapter.MetricsRecorder.
func (r *Recorder) AuthRequest(operation, outcome string) {
	r.AuthRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// EmailDelivery implements adapter.MetricsRecorder.
func (r *Recorder) EmailDelivery(template, outcome string) {
	r.EmailsTotal.WithLabelValues(template, outcome).Inc()
}

// HTTPRequest counts one served request. route is the matched pattern, not the raw path.
func (r *Recorder) HTTPRequest(method, route string, status int) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// NewRegistry returns a registry with the standard Go and process collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
