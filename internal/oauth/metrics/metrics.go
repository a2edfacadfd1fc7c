package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization flow. All methods are
// nil-safe so tests can run services without a registry.
type Metrics struct {
	// Authorize outcomes: authenticated, login_redirect, or an error code
	AuthorizeOutcome *prometheus.CounterVec

	// Token exchange outcomes: issued or an error code
	TokenOutcome *prometheus.CounterVec

	// Logout requests
	Logouts prometheus.Counter

	// Per-operation latency
	FlowLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all authorization flow metrics
// registered on the default registerer.
func New() *Metrics {
	return &Metrics{
		AuthorizeOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "signet_oauth_authorize_total",
			Help: "Total authorization requests by outcome",
		}, []string{"outcome"}),

		TokenOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "signet_oauth_token_total",
			Help: "Total token exchanges by outcome",
		}, []string{"outcome"}),

		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "signet_oauth_logouts_total",
			Help: "Total logout requests",
		}),

		FlowLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "signet_oauth_flow_duration_seconds",
			Help:    "Duration of authorization flow operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}), // operation: "authorize", "token", "logout"
	}
}

// IncrementAuthorize records an authorize outcome.
func (m *Metrics) IncrementAuthorize(outcome string) {
	if m != nil {
		m.AuthorizeOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementToken records a token exchange outcome.
func (m *Metrics) IncrementToken(outcome string) {
	if m != nil {
		m.TokenOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementLogout records a logout.
func (m *Metrics) IncrementLogout() {
	if m != nil {
		m.Logouts.Inc()
	}
}

// ObserveFlowLatency records the duration of a flow operation.
func (m *Metrics) ObserveFlowLatency(operation string, d time.Duration) {
	if m != nil {
		m.FlowLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}
