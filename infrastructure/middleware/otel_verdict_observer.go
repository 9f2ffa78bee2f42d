package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var _ ports.VerdictObserver = (*OTelVerdictObserver)(nil)

// OTelVerdictObserver implements observability for verdict building and
// ranking using OpenTelemetry tracing. Every notification becomes a span
// covering the reported elapsed time, and the outcome is forwarded to the
// metrics collector when one is configured.
// It holds no per-call state and is safe for concurrent use.
type OTelVerdictObserver struct {
	metrics  ports.MetricsCollector
	unitName string
	tracer   trace.Tracer
}

// NewOTelVerdictObserver creates a new OpenTelemetry verdict observer.
// metrics may be nil.
func NewOTelVerdictObserver(metrics ports.MetricsCollector, unitName string) *OTelVerdictObserver {
	return &OTelVerdictObserver{
		metrics:  metrics,
		unitName: unitName,
		tracer:   otel.Tracer("verdict-engine"),
	}
}

// VerdictBuilt implements the VerdictObserver interface.
func (o *OTelVerdictObserver) VerdictBuilt(
	ctx context.Context,
	submissionID string,
	v *domain.Verdict,
	elapsed time.Duration,
	err error,
) {
	_, span := o.tracer.Start(ctx, "VerdictBuilder.Build",
		trace.WithTimestamp(time.Now().Add(-elapsed)),
		trace.WithAttributes(
			attribute.String("verdict.unit", o.unitName),
			attribute.String("submission.id", submissionID),
		),
	)
	defer span.End()

	labels := o.labels()
	if o.metrics != nil {
		o.metrics.RecordLatency("verdict_build", elapsed, labels)
	}

	if err != nil || v == nil {
		if err == nil {
			err = errors.New("no verdict built")
		}
		rule := "other"
		var ive *domain.InvalidVerdictError
		if errors.As(err, &ive) {
			rule = ive.Rule
			span.AddEvent("verdict.invalid", trace.WithAttributes(
				attribute.String("rule", ive.Rule),
				attribute.String("reason", ive.Reason),
			))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if o.metrics != nil {
			labels["rule"] = rule
			o.metrics.RecordCounter(MetricVerdictBuildErrors, 1, labels)
		}
		return
	}

	summary := domain.CompileError
	if !v.IsCompileError() {
		// Judged verdicts always have judges, so these cannot fail.
		summary, _ = v.SummaryStatus()
		maxRuntime, _ := v.MaximumRuntime()
		maxMemory, _ := v.MaximumMemoryUsage()
		span.SetAttributes(
			attribute.Int("verdict.total_grade", v.TotalGrade()),
			attribute.Int("verdict.judges", len(v.Judges())),
			attribute.Int64("verdict.max_runtime_ms", maxRuntime),
			attribute.Int64("verdict.max_memory_bytes", maxMemory),
		)
		if o.metrics != nil {
			o.metrics.RecordHistogram(MetricVerdictTotalGrade, float64(v.TotalGrade()), labels)
			o.metrics.RecordHistogram(MetricVerdictMaxRuntime, float64(maxRuntime), labels)
		}
	}
	span.SetAttributes(attribute.String("verdict.summary", summary.String()))

	if o.metrics != nil {
		labels["summary"] = summary.String()
		o.metrics.RecordCounter(MetricVerdictsBuilt, 1, labels)
	}
	span.SetStatus(codes.Ok, "verdict built")
}

// LeaderboardBuilt implements the VerdictObserver interface.
func (o *OTelVerdictObserver) LeaderboardBuilt(
	ctx context.Context,
	entries int,
	elapsed time.Duration,
	err error,
) {
	_, span := o.tracer.Start(ctx, "Ranker.BuildLeaderboard",
		trace.WithTimestamp(time.Now().Add(-elapsed)),
		trace.WithAttributes(
			attribute.String("verdict.unit", o.unitName),
			attribute.Int("leaderboard.entries", entries),
		),
	)
	defer span.End()

	labels := o.labels()
	if o.metrics != nil {
		o.metrics.RecordLatency("leaderboard_build", elapsed, labels)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if o.metrics != nil {
			labels["status"] = "error"
			o.metrics.RecordCounter("leaderboard_builds_total", 1, labels)
		}
		return
	}

	if o.metrics != nil {
		o.metrics.RecordCounter("leaderboard_builds_total", 1, labels)
		o.metrics.RecordGauge(MetricLeaderboardEntries, float64(entries), labels)
	}
	span.SetStatus(codes.Ok, "leaderboard built")
}

func (o *OTelVerdictObserver) labels() map[string]string {
	return map[string]string{"unit": o.unitName}
}
