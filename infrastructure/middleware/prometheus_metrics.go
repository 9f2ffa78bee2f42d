// Package middleware provides cross-cutting concerns for the verdict engine.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/judgegirl/verdict/internal/ports"
)

// Metric names understood by PrometheusMetrics. Other names fall through
// to the generic operation counter, gauge and latency vectors.
const (
	MetricVerdictsBuilt      = "verdicts_built_total"
	MetricVerdictBuildErrors = "verdict_build_errors_total"
	MetricVerdictTotalGrade  = "verdict_total_grade"
	MetricVerdictMaxRuntime  = "verdict_max_runtime_ms"
	MetricLeaderboardEntries = "leaderboard_entries"

	metricOperationDuration = "verdict_engine_operation_duration_seconds"
	metricOperations        = "verdict_engine_operations_total"
	metricEngineState       = "verdict_engine_state"
)

// PrometheusMetrics implements the MetricsCollector interface using Prometheus.
// It tracks how many verdicts are built per summary status, why builds
// fail, and the distribution of grades and runtimes.
type PrometheusMetrics struct {
	verdictsBuilt    *prometheus.CounterVec
	buildErrors      *prometheus.CounterVec
	totalGrade       *prometheus.HistogramVec
	maxRuntime       *prometheus.HistogramVec
	executionLatency *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and registers
// all required metrics with reg. A nil reg uses the global Prometheus
// registry. Registration conflicts, such as constructing twice against the
// same registry, are returned as a *ports.MetricsError.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	pm := &PrometheusMetrics{
		verdictsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricVerdictsBuilt,
				Help: "Total number of verdicts built, by summary status.",
			},
			[]string{"summary", "unit"},
		),
		buildErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricVerdictBuildErrors,
				Help: "Total number of submissions whose verdict could not be built, by violated rule.",
			},
			[]string{"rule", "unit"},
		),
		totalGrade: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricVerdictTotalGrade,
				Help:    "Total grade of judged verdicts.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
			[]string{"unit"},
		),
		maxRuntime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricVerdictMaxRuntime,
				Help:    "Maximum test case runtime of judged verdicts in milliseconds.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 15),
			},
			[]string{"unit"},
		),

		// General execution metrics.
		executionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricOperationDuration,
				Help:    "Execution time of verdict engine operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "unit"},
		),
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricOperations,
				Help: "Total number of operations performed by the verdict engine.",
			},
			[]string{"operation", "status", "unit"},
		),
		systemGauges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricEngineState,
				Help: "Current state values of the verdict engine.",
			},
			[]string{"metric", "unit"},
		),
	}

	collectors := []struct {
		name      string
		collector prometheus.Collector
	}{
		{MetricVerdictsBuilt, pm.verdictsBuilt},
		{MetricVerdictBuildErrors, pm.buildErrors},
		{MetricVerdictTotalGrade, pm.totalGrade},
		{MetricVerdictMaxRuntime, pm.maxRuntime},
		{metricOperationDuration, pm.executionLatency},
		{metricOperations, pm.operationCounter},
		{metricEngineState, pm.systemGauges},
	}
	for _, c := range collectors {
		if err := reg.Register(c.collector); err != nil {
			return nil, ports.NewMetricsError(c.name, "register", err)
		}
	}
	return pm, nil
}

// unitLabel returns the "unit" label, defaulting to "unknown".
func unitLabel(labels map[string]string) string {
	if unit := labels["unit"]; unit != "" {
		return unit
	}
	return "unknown"
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	pm.executionLatency.WithLabelValues(operation, unitLabel(labels)).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	unit := unitLabel(labels)

	switch metric {
	case MetricVerdictsBuilt:
		pm.verdictsBuilt.WithLabelValues(labels["summary"], unit).Add(value)
	case MetricVerdictBuildErrors:
		rule := labels["rule"]
		if rule == "" {
			rule = "other"
		}
		pm.buildErrors.WithLabelValues(rule, unit).Add(value)
	default:
		status := labels["status"]
		if status == "" {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status, unit).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	pm.systemGauges.WithLabelValues(metric, unitLabel(labels)).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	unit := unitLabel(labels)

	switch metric {
	case MetricVerdictTotalGrade:
		pm.totalGrade.WithLabelValues(unit).Observe(value)
	case MetricVerdictMaxRuntime:
		pm.maxRuntime.WithLabelValues(unit).Observe(value)
	default:
		pm.executionLatency.WithLabelValues(metric, unit).Observe(value)
	}
}

// Compile-time verification that PrometheusMetrics implements MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)
