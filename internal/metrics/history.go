package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HistoryMetrics records history module operation outcomes.
type HistoryMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordGameArchived(ctx context.Context)
	RecordDuplicateArchive(ctx context.Context)
}

// PrometheusHistoryMetrics implements HistoryMetrics on a prometheus registry.
type PrometheusHistoryMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	gamesArchived      prometheus.Counter
	duplicateArchives  prometheus.Counter
}

// NewHistoryMetrics registers the history module collectors on the registry.
func NewHistoryMetrics(registerer prometheus.Registerer) *PrometheusHistoryMetrics {
	factory := promauto.With(registerer)
	return &PrometheusHistoryMetrics{
		operationAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "operation_attempts_total",
			Help:      "Number of history service operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "operation_successes_total",
			Help:      "Number of history service operations that succeeded.",
		}, []string{"operation"}),
		operationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "operation_failures_total",
			Help:      "Number of history service operations that failed.",
		}, []string{"operation"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "operation_duration_seconds",
			Help:      "Duration of history service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		gamesArchived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "games_archived_total",
			Help:      "Number of completed games appended to the history log.",
		}),
		duplicateArchives: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kachuful",
			Subsystem: "history",
			Name:      "duplicate_archives_total",
			Help:      "Number of archive attempts skipped as duplicates.",
		}),
	}
}

func (m *PrometheusHistoryMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusHistoryMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccesses.WithLabelValues(operation).Inc()
}

func (m *PrometheusHistoryMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *PrometheusHistoryMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusHistoryMetrics) RecordGameArchived(_ context.Context) {
	m.gamesArchived.Inc()
}

func (m *PrometheusHistoryMetrics) RecordDuplicateArchive(_ context.Context) {
	m.duplicateArchives.Inc()
}

// NoOpHistoryMetrics discards all recordings. Used in tests.
type NoOpHistoryMetrics struct{}

func (NoOpHistoryMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpHistoryMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpHistoryMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpHistoryMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpHistoryMetrics) RecordGameArchived(context.Context)                             {}
func (NoOpHistoryMetrics) RecordDuplicateArchive(context.Context)                         {}
