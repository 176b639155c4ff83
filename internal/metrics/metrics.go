// Package metrics exposes wizard and pipeline activity as Prometheus collectors.
package metrics

import (
	"context"

	"github.com/aretw0/switchyard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the switchyard collectors.
type Metrics struct {
	StepVisits     *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec
	ActionFailures *prometheus.CounterVec
	FetchFailures  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchyard_step_visits_total",
				Help: "Total number of wizard step visits",
			},
			[]string{"step_id"},
		),
		ActionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "switchyard_action_duration_seconds",
				Help:    "Duration of creation pipeline actions",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"action_id"},
		),
		ActionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchyard_action_failures_total",
				Help: "Total number of failed creation pipeline actions",
			},
			[]string{"action_id"},
		),
		FetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "switchyard_fetch_failures_total",
				Help: "Total number of background fetches that failed",
			},
			[]string{"step_id", "fetch"},
		),
	}
	reg.MustRegister(m.StepVisits, m.ActionDuration, m.ActionFailures, m.FetchFailures)
	return m
}

// Hooks records lifecycle events into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.StepID).Inc()
		},
		OnActionFinish: func(_ context.Context, e *domain.ActionEvent) {
			m.ActionDuration.WithLabelValues(e.ActionID).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.ActionFailures.WithLabelValues(e.ActionID).Inc()
			}
		},
		OnFetchFailed: func(_ context.Context, e *domain.FetchEvent) {
			m.FetchFailures.WithLabelValues(e.StepID, e.Name).Inc()
		},
	}
}
