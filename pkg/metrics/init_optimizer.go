package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0}

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_runs_total",
			Help: "Total number of community detection runs",
		},
		[]string{"objective", "status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_run_duration_seconds",
			Help:    "Community detection run duration in seconds",
			Buckets: durationBuckets,
		},
		[]string{"objective"},
	)

	r.FinalScore = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "communities_final_score",
			Help: "Objective score of the most recent successful run",
		},
		[]string{"objective"},
	)
}

func (r *Registry) initLevelMetrics() {
	r.LevelsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_levels_total",
			Help: "Total number of dendrogram levels produced",
		},
		[]string{"objective"},
	)

	r.MovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_moves_total",
			Help: "Total number of node moves made by local search",
		},
		[]string{"objective"},
	)

	r.SweepsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "communities_sweeps_total",
			Help: "Total number of local search sweeps",
		},
		[]string{"objective"},
	)

	r.LevelDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_level_duration_seconds",
			Help:    "Duration of one dendrogram level (local search and coarsening)",
			Buckets: durationBuckets,
		},
		[]string{"objective"},
	)

	r.LevelNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "communities_level_nodes",
			Help:    "Number of graph nodes at the start of a dendrogram level",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		},
		[]string{"objective"},
	)
}

func (r *Registry) initExpansionMetrics() {
	r.ExpansionAdmittedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "communities_expansion_admitted_total",
			Help: "Total number of boundary nodes admitted by community expansion",
		},
	)

	r.ExpansionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "communities_expansion_duration_seconds",
			Help:    "Community expansion duration in seconds",
			Buckets: durationBuckets,
		},
	)
}
