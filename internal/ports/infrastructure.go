package ports

import (
	"context"
	"time"

	"github.com/judgegirl/verdict/internal/domain"
)

// MetricsCollector defines the interface for collecting operational metrics.
// Implementations should integrate with observability platforms like
// Prometheus or OpenTelemetry.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, such as a total
	// grade or a runtime.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

// VerdictObserver receives notifications while verdicts are built and
// ranked. Implementations must tolerate concurrent calls.
type VerdictObserver interface {
	// VerdictBuilt is called after a submission's verdict was built, or
	// with a non-nil err when construction failed.
	VerdictBuilt(ctx context.Context, submissionID string, v *domain.Verdict, elapsed time.Duration, err error)

	// LeaderboardBuilt is called once a leaderboard has been computed.
	LeaderboardBuilt(ctx context.Context, entries int, elapsed time.Duration, err error)
}
