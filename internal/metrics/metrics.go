// Package metrics provides Prometheus instrumentation for the processing
// pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// PipelineRuns counts finished pipeline runs by terminal status.
	PipelineRuns *prometheus.CounterVec
	// StageDuration observes per-stage wall-clock duration in seconds.
	StageDuration *prometheus.HistogramVec
	// UploadsReceived counts accepted video uploads.
	UploadsReceived prometheus.Counter
}

// New creates and registers the pipeline collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Finished pipeline runs by terminal status.",
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Wall-clock duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"}),
		UploadsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uploads_received_total",
			Help: "Accepted video uploads.",
		}),
	}

	reg.MustRegister(m.PipelineRuns, m.StageDuration, m.UploadsReceived)

	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
