// Package metrics exposes Prometheus metrics for the sample-collection loop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics.
type PrometheusMetrics struct {
	// Job metrics
	JobsTotal        *prometheus.CounterVec
	JobLatencySecs   *prometheus.HistogramVec
	JobRepetitions   *prometheus.HistogramVec

	// Sample metrics
	SamplesRequestedTotal *prometheus.CounterVec
	OutcomesRecordedTotal *prometheus.CounterVec

	// Cache metrics
	CircuitCacheHitsTotal   prometheus.Counter
	CircuitCacheMissesTotal prometheus.Counter

	// Circuit breaker metrics
	CircuitOpenTotal     *prometheus.CounterVec
	CircuitClosedTotal   *prometheus.CounterVec
	CircuitHalfOpenTotal *prometheus.CounterVec
}

// NewPrometheusMetrics creates a new Prometheus metrics instance.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		JobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_jobs_total",
				Help: "Total number of sampling jobs submitted",
			},
			[]string{"backend", "status"},
		),

		JobLatencySecs: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sampler_job_latency_seconds",
				Help:    "Sampling job latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),

		JobRepetitions: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sampler_job_repetitions",
				Help:    "Repetitions requested per sampling job",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"backend"},
		),

		SamplesRequestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_samples_requested_total",
				Help: "Total repetitions requested across all jobs",
			},
			[]string{"backend"},
		),

		OutcomesRecordedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_outcomes_recorded_total",
				Help: "Total measurement outcomes folded into accumulators",
			},
			[]string{"backend", "parity"},
		),

		CircuitCacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "derived_circuit_cache_hits_total",
				Help: "Total number of derived-circuit cache hits",
			},
		),

		CircuitCacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "derived_circuit_cache_misses_total",
				Help: "Total number of derived-circuit cache misses",
			},
		),

		CircuitOpenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_circuit_open_total",
				Help: "Total number of circuit breaker opens",
			},
			[]string{"backend"},
		),

		CircuitClosedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_circuit_closed_total",
				Help: "Total number of circuit breaker closes",
			},
			[]string{"backend"},
		),

		CircuitHalfOpenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sampler_circuit_half_open_total",
				Help: "Total number of circuit breaker half-opens",
			},
			[]string{"backend"},
		),
	}
}

// RecordJob records a completed or failed sampling job.
func (m *PrometheusMetrics) RecordJob(backend, status string, repetitions int, duration time.Duration) {
	m.JobsTotal.WithLabelValues(backend, status).Inc()
	m.JobLatencySecs.WithLabelValues(backend).Observe(duration.Seconds())
	m.JobRepetitions.WithLabelValues(backend).Observe(float64(repetitions))
	m.SamplesRequestedTotal.WithLabelValues(backend).Add(float64(repetitions))
}

// RecordOutcomes records folded measurement outcomes by parity.
func (m *PrometheusMetrics) RecordOutcomes(backend string, zeros, ones int64) {
	if zeros > 0 {
		m.OutcomesRecordedTotal.WithLabelValues(backend, "even").Add(float64(zeros))
	}
	if ones > 0 {
		m.OutcomesRecordedTotal.WithLabelValues(backend, "odd").Add(float64(ones))
	}
}

// RecordCacheHit records a derived-circuit cache hit.
func (m *PrometheusMetrics) RecordCacheHit() {
	m.CircuitCacheHitsTotal.Inc()
}

// RecordCacheMiss records a derived-circuit cache miss.
func (m *PrometheusMetrics) RecordCacheMiss() {
	m.CircuitCacheMissesTotal.Inc()
}

// RecordCircuitOpen records a circuit breaker open.
func (m *PrometheusMetrics) RecordCircuitOpen(backend string) {
	m.CircuitOpenTotal.WithLabelValues(backend).Inc()
}

// RecordCircuitClosed records a circuit breaker close.
func (m *PrometheusMetrics) RecordCircuitClosed(backend string) {
	m.CircuitClosedTotal.WithLabelValues(backend).Inc()
}

// RecordCircuitHalfOpen records a circuit breaker half-open.
func (m *PrometheusMetrics) RecordCircuitHalfOpen(backend string) {
	m.CircuitHalfOpenTotal.WithLabelValues(backend).Inc()
}
