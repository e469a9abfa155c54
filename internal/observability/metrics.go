// Package observability holds the Prometheus collectors for the backend.
// Collectors are registered on an injected Registerer rather than the global
// default, so tests can use a fresh registry per case.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rideshare"

// Metrics groups every collector the backend exports. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	SweepRuns       prometheus.Counter
	SweepExpired    *prometheus.CounterVec
	SweepFailures   *prometheus.CounterVec
	SweepDuration   prometheus.Histogram
	Transitions     *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPRequestTime *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SweepRuns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "sweep_runs_total", Help: "Expiry sweep runs started",
		}),
		SweepExpired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sweep_expired_total", Help: "Rows moved to EXPIRED by the sweeper",
		}, []string{"family"}),
		SweepFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sweep_family_failures_total", Help: "Sweep families that failed",
		}, []string{"family"}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "sweep_duration_seconds", Help: "Wall time of a full sweep",
			Buckets: prometheus.DefBuckets,
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "transitions_total", Help: "User-driven status transitions by outcome",
		}, []string{"family", "to", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled",
		}, []string{"method", "route", "status"}),
		HTTPRequestTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveSweepFamily records one family's outcome.
func (m *Metrics) ObserveSweepFamily(family string, expired int64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SweepFailures.WithLabelValues(family).Inc()
		return
	}
	m.SweepExpired.WithLabelValues(family).Add(float64(expired))
}

// ObserveSweep records a completed run.
func (m *Metrics) ObserveSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.SweepRuns.Inc()
	m.SweepDuration.Observe(d.Seconds())
}

// ObserveTransition records a user-driven transition attempt. outcome is
// "ok" or a short error code such as "precondition_failed".
func (m *Metrics) ObserveTransition(family, to, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(family, to, outcome).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestTime.WithLabelValues(method, route, status).Observe(d.Seconds())
}
