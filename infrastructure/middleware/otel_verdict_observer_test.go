package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/testutils"
)

// recordedMetric is one call made on mockMetrics.
type recordedMetric struct {
	kind   string
	name   string
	value  float64
	labels map[string]string
}

// mockMetrics is a ports.MetricsCollector that records every call.
type mockMetrics struct {
	mu    sync.Mutex
	calls []recordedMetric
}

func (m *mockMetrics) record(kind, name string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	m.calls = append(m.calls, recordedMetric{kind: kind, name: name, value: value, labels: copied})
}

func (m *mockMetrics) RecordLatency(op string, d time.Duration, labels map[string]string) {
	m.record("latency", op, d.Seconds(), labels)
}

func (m *mockMetrics) RecordCounter(name string, v float64, labels map[string]string) {
	m.record("counter", name, v, labels)
}

func (m *mockMetrics) RecordGauge(name string, v float64, labels map[string]string) {
	m.record("gauge", name, v, labels)
}

func (m *mockMetrics) RecordHistogram(name string, v float64, labels map[string]string) {
	m.record("histogram", name, v, labels)
}

func (m *mockMetrics) find(kind, name string) []recordedMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []recordedMetric
	for _, c := range m.calls {
		if c.kind == kind && c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func TestOTelVerdictObserver_VerdictBuilt(t *testing.T) {
	metrics := &mockMetrics{}
	o := NewOTelVerdictObserver(metrics, "builder")
	ctx := context.Background()

	judged := testutils.MustVerdict(t, 0,
		testutils.Accepted(40, 120),
		testutils.Failed(domain.RuntimeError, 300),
	)
	o.VerdictBuilt(ctx, "s1", judged, 5*time.Millisecond, nil)
	o.VerdictBuilt(ctx, "s2", testutils.MustCompileError(t, 0, "error"), time.Millisecond, nil)

	built := metrics.find("counter", MetricVerdictsBuilt)
	require.Len(t, built, 2)
	assert.Equal(t, "RE", built[0].labels["summary"])
	assert.Equal(t, "builder", built[0].labels["unit"])
	assert.Equal(t, "CE", built[1].labels["summary"])

	grades := metrics.find("histogram", MetricVerdictTotalGrade)
	require.Len(t, grades, 1, "compile errors carry no grade")
	assert.InDelta(t, 40, grades[0].value, 1e-9)

	runtimes := metrics.find("histogram", MetricVerdictMaxRuntime)
	require.Len(t, runtimes, 1)
	assert.InDelta(t, 300, runtimes[0].value, 1e-9)

	assert.Len(t, metrics.find("latency", "verdict_build"), 2)
	assert.Empty(t, metrics.find("counter", MetricVerdictBuildErrors))
}

func TestOTelVerdictObserver_VerdictBuildFailed(t *testing.T) {
	metrics := &mockMetrics{}
	o := NewOTelVerdictObserver(metrics, "builder")

	_, err := domain.NewVerdict(nil, time.Time{})
	require.Error(t, err)
	o.VerdictBuilt(context.Background(), "bad", nil, 0, err)
	o.VerdictBuilt(context.Background(), "worse", nil, 0, errors.New("decode failure"))

	failures := metrics.find("counter", MetricVerdictBuildErrors)
	require.Len(t, failures, 2)
	assert.Equal(t, domain.RuleAtLeastOneJudge, failures[0].labels["rule"])
	assert.Equal(t, "other", failures[1].labels["rule"])
	assert.Empty(t, metrics.find("counter", MetricVerdictsBuilt))
}

func TestOTelVerdictObserver_LeaderboardBuilt(t *testing.T) {
	metrics := &mockMetrics{}
	o := NewOTelVerdictObserver(metrics, "ranker")

	o.LeaderboardBuilt(context.Background(), 12, time.Millisecond, nil)
	o.LeaderboardBuilt(context.Background(), 0, time.Millisecond, errors.New("cancelled"))

	gauges := metrics.find("gauge", MetricLeaderboardEntries)
	require.Len(t, gauges, 1)
	assert.InDelta(t, 12, gauges[0].value, 1e-9)

	builds := metrics.find("counter", "leaderboard_builds_total")
	require.Len(t, builds, 2)
	assert.Equal(t, "", builds[0].labels["status"])
	assert.Equal(t, "error", builds[1].labels["status"])
}

func TestOTelVerdictObserver_NilMetrics(t *testing.T) {
	o := NewOTelVerdictObserver(nil, "builder")
	assert.NotPanics(t, func() {
		o.VerdictBuilt(context.Background(), "s", testutils.MustVerdict(t, 0, testutils.Accepted(1, 1)), 0, nil)
		o.VerdictBuilt(context.Background(), "s", nil, 0, nil)
		o.LeaderboardBuilt(context.Background(), 1, 0, nil)
	})
}

func TestOTelVerdictObserver_WithPrometheus(t *testing.T) {
	pm, reg := newTestMetrics(t)
	o := NewOTelVerdictObserver(pm, "builder")

	v := testutils.MustVerdict(t, 0, testutils.Accepted(100, 10))
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.VerdictBuilt(context.Background(), "s", v, time.Millisecond, nil)
		}()
	}
	wg.Wait()

	built := gather(t, reg, MetricVerdictsBuilt)
	require.Len(t, built, 1)
	assert.Equal(t, "AC", built[0].labels["summary"])
	assert.InDelta(t, 20, built[0].value, 1e-9)
}
