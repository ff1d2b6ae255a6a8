package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts submitted actions by outcome. A nil *Metrics records nothing.
type Metrics struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoreboard",
			Name:      "actions_total",
			Help:      "Score actions by game, action type and outcome.",
		}, []string{"game", "type", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scoreboard",
			Name:      "action_duration_seconds",
			Help:      "Time spent validating and applying a score action.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.actions, m.duration)
	return m
}

func (m *Metrics) observe(game, actionType, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(game, actionType, outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}
