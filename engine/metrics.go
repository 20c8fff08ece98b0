package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the retrieval engine. All
// methods tolerate a nil receiver so tests can run without a registry.
type Metrics struct {
	Registry        *prometheus.Registry
	AttemptsTotal   *prometheus.CounterVec
	AttemptDuration prometheus.Histogram
	RetriesTotal    *prometheus.CounterVec
	ErrorsTotal     *prometheus.CounterVec
	ResolvesTotal   *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// NewMetrics constructs and registers all collectors on a dedicated
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railstatus_attempts_total",
			Help: "Total fetch attempts against providers by outcome.",
		},
		[]string{"source", "outcome"},
	)
	attemptDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "railstatus_attempt_duration_seconds",
			Help:    "Latency of individual provider fetch attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railstatus_retries_total",
			Help: "Total retry waits scheduled per provider.",
		},
		[]string{"source"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railstatus_errors_total",
			Help: "Total fetch failures by provider and error type.",
		},
		[]string{"source", "error_type"},
	)
	resolves := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "railstatus_resolves_total",
			Help: "Total train status resolutions by result and serving provider.",
		},
		[]string{"result", "source"},
	)
	resolveDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "railstatus_resolve_duration_seconds",
			Help:    "End to end latency of train status resolutions.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(attempts, attemptDuration, retries, errorsTotal, resolves, resolveDuration)

	return &Metrics{
		Registry:        registry,
		AttemptsTotal:   attempts,
		AttemptDuration: attemptDuration,
		RetriesTotal:    retries,
		ErrorsTotal:     errorsTotal,
		ResolvesTotal:   resolves,
		ResolveDuration: resolveDuration,
	}
}

// IncAttempt increments the attempt counter for a source and outcome.
func (m *Metrics) IncAttempt(source, outcome string) {
	if m == nil {
		return
	}
	m.AttemptsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveAttempt records one fetch attempt's duration.
func (m *Metrics) ObserveAttempt(d time.Duration) {
	if m == nil {
		return
	}
	m.AttemptDuration.Observe(d.Seconds())
}

// IncRetry increments the retry counter for a source.
func (m *Metrics) IncRetry(source string) {
	if m == nil {
		return
	}
	m.RetriesTotal.WithLabelValues(source).Inc()
}

// IncError increments the error counter for a source and type label.
func (m *Metrics) IncError(source, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// IncResolve increments the resolution counter. For misses the source is
// recorded as "none".
func (m *Metrics) IncResolve(result, source string) {
	if m == nil {
		return
	}
	m.ResolvesTotal.WithLabelValues(result, source).Inc()
}

// ObserveResolve records one resolution's end to end duration.
func (m *Metrics) ObserveResolve(d time.Duration) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(d.Seconds())
}
