package metrics

import (
	"time"
)

// Run outcome labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordRun records a finished community detection run
func (r *Registry) RecordRun(objective, status string, duration time.Duration, score float64) {
	r.RunsTotal.WithLabelValues(objective, status).Inc()
	r.RunDuration.WithLabelValues(objective).Observe(duration.Seconds())
	if status == StatusSuccess {
		r.FinalScore.WithLabelValues(objective).Set(score)
	}
}

// RecordLevel records one dendrogram level
func (r *Registry) RecordLevel(objective string, nodes, sweeps, moves int, duration time.Duration) {
	r.LevelsTotal.WithLabelValues(objective).Inc()
	r.SweepsTotal.WithLabelValues(objective).Add(float64(sweeps))
	r.MovesTotal.WithLabelValues(objective).Add(float64(moves))
	r.LevelNodes.WithLabelValues(objective).Observe(float64(nodes))
	r.LevelDuration.WithLabelValues(objective).Observe(duration.Seconds())
}

// RecordExpansion records one community expansion pass
func (r *Registry) RecordExpansion(admitted int, duration time.Duration) {
	r.ExpansionAdmittedTotal.Add(float64(admitted))
	r.ExpansionDuration.Observe(duration.Seconds())
}
