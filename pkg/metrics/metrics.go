// Package metrics exposes prometheus instrumentation for pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all pipeline metrics. Each pipeline owns its own Registry
// so parallel runs and tests never share collector state.
type Registry struct {
	registry *prometheus.Registry

	RowsReadTotal    prometheus.Counter
	RowsDroppedTotal *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	GraphNodes       *prometheus.GaugeVec
	GraphEdges       *prometheus.GaugeVec
	RunsTotal        *prometheus.CounterVec
}

// NewRegistry creates a Registry backed by a fresh prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.RowsReadTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "servicegraph_rows_read_total",
			Help: "Raw records read from the input source",
		},
	)

	r.RowsDroppedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicegraph_rows_dropped_total",
			Help: "Records dropped during cleaning, by reason",
		},
		[]string{"reason"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "servicegraph_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
		[]string{"stage"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "servicegraph_graph_nodes",
			Help: "Node count per graph",
		},
		[]string{"graph"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "servicegraph_graph_edges",
			Help: "Edge count per graph",
		},
		[]string{"graph"},
	)

	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "servicegraph_runs_total",
			Help: "Completed pipeline runs by status",
		},
		[]string{"status"},
	)

	return r
}

// Gatherer returns the underlying gatherer for serving /metrics.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveStage records a stage duration.
func (r *Registry) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordDrop counts rows dropped by a cleaning step.
func (r *Registry) RecordDrop(reason string, n int) {
	if n > 0 {
		r.RowsDroppedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// SetGraphSize records node and edge counts for a named graph.
func (r *Registry) SetGraphSize(graph string, nodes, edges int) {
	r.GraphNodes.WithLabelValues(graph).Set(float64(nodes))
	r.GraphEdges.WithLabelValues(graph).Set(float64(edges))
}

// RecordRun counts a finished run with its status ("ok" or "error").
func (r *Registry) RecordRun(status string) {
	r.RunsTotal.WithLabelValues(status).Inc()
}
