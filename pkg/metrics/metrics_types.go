package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all optimiser metrics
type Registry struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	FinalScore  *prometheus.GaugeVec

	// Per-level metrics
	LevelsTotal   *prometheus.CounterVec
	MovesTotal    *prometheus.CounterVec
	SweepsTotal   *prometheus.CounterVec
	LevelDuration *prometheus.HistogramVec
	LevelNodes    *prometheus.HistogramVec

	// Expansion metrics
	ExpansionAdmittedTotal prometheus.Counter
	ExpansionDuration      prometheus.Histogram

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initLevelMetrics()
	r.initExpansionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
