package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	StaleResponses     *prometheus.CounterVec
	Uploads            *prometheus.CounterVec
	ActiveSessions     prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		APIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "titanic_api_requests_total",
			Help: "Requests sent to the passenger API by operation and outcome",
		}, []string{"operation", "outcome"}),
		APIRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "titanic_api_request_duration_seconds",
			Help:    "Passenger API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		StaleResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_stale_responses_total",
			Help: "Responses discarded because a newer request for the same operation was issued",
		}, []string{"operation"}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_uploads_total",
			Help: "CSV uploads by outcome",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Dashboard sessions currently held in memory",
		}),
	}
}

// ObserveRequest records one passenger API call
func (m *Metrics) ObserveRequest(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(operation, outcome(err)).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// IncStale records a discarded out-of-order response
func (m *Metrics) IncStale(operation string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(operation).Inc()
}

// ObserveUpload records an upload attempt
func (m *Metrics) ObserveUpload(err error) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(outcome(err)).Inc()
}

// SetSessions records the live session count
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
