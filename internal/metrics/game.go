// Package metrics defines the per-module metrics contracts and their
// prometheus-backed implementations. Services depend on the interfaces so
// tests can pass no-op recorders.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GameMetrics records game module operation outcomes and domain events.
type GameMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordValidationFailure(ctx context.Context, code string)
	RecordRoundCompleted(ctx context.Context, variant string)
	RecordGameCompleted(ctx context.Context, variant string)
}

// PrometheusGameMetrics implements GameMetrics on a prometheus registry.
type PrometheusGameMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	roundsCompleted    *prometheus.CounterVec
	gamesCompleted     *prometheus.CounterVec
}

// NewGameMetrics registers the game module collectors on the given registry.
func NewGameMetrics(registerer prometheus.Registerer) *PrometheusGameMetrics {
	factory := promauto.With(registerer)
	return &PrometheusGameMetrics{
		operationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "operation_attempts_total",
			Help:      "Number of game service operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "operation_successes_total",
			Help:      "Number of game service operations that succeeded.",
		}, []string{"operation"}),
		operationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "operation_failures_total",
			Help:      "Number of game service operations that failed.",
		}, []string{"operation"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "operation_duration_seconds",
			Help:      "Duration of game service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "validation_failures_total",
			Help:      "Number of rejected bid or trick submissions by code.",
		}, []string{"code"}),
		roundsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "rounds_completed_total",
			Help:      "Number of rounds scored.",
		}, []string{"variant"}),
		gamesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "game",
			Name:      "games_completed_total",
			Help:      "Number of games completed.",
		}, []string{"variant"}),
	}
}

func (m *PrometheusGameMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusGameMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccesses.WithLabelValues(operation).Inc()
}

func (m *PrometheusGameMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *PrometheusGameMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusGameMetrics) RecordValidationFailure(_ context.Context, code string) {
	m.validationFailures.WithLabelValues(code).Inc()
}

func (m *PrometheusGameMetrics) RecordRoundCompleted(_ context.Context, variant string) {
	m.roundsCompleted.WithLabelValues(variant).Inc()
}

func (m *PrometheusGameMetrics) RecordGameCompleted(_ context.Context, variant string) {
	m.gamesCompleted.WithLabelValues(variant).Inc()
}

// NoOpGameMetrics discards all recordings. Used in tests.
type NoOpGameMetrics struct{}

func (NoOpGameMetrics) RecordOperationAttempt(context.Context, string)                {}
func (NoOpGameMetrics) RecordOperationSuccess(context.Context, string)                {}
func (NoOpGameMetrics) RecordOperationFailure(context.Context, string)                {}
func (NoOpGameMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpGameMetrics) RecordValidationFailure(context.Context, string)               {}
func (NoOpGameMetrics) RecordRoundCompleted(context.Context, string)                  {}
func (NoOpGameMetrics) RecordGameCompleted(context.Context, string)                   {}
