// Package telemetry exposes Prometheus collectors for the analytics core.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments pipeline execution and cache behavior. A nil *Metrics
// is valid and records nothing, so library callers can opt out.
type Metrics struct {
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
	cacheHits *prometheus.CounterVec
	records   prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shoplens",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline executions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shoplens",
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of full pipeline executions.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shoplens",
			Name:      "cache_requests_total",
			Help:      "Result-cache lookups by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shoplens",
			Name:      "records_processed",
			Help:      "Records cleaned in the most recent pipeline run.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.cacheHits, m.records)
	return m
}

// ObserveRun records one pipeline execution.
func (m *Metrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveCache records a cache lookup outcome ("hit" or "miss").
func (m *Metrics) ObserveCache(outcome string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(outcome).Inc()
}

// SetRecordsProcessed records the cleaned-record count of a run.
func (m *Metrics) SetRecordsProcessed(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}
