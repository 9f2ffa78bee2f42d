package application

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgegirl/verdict/infrastructure/inspection"
	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
	"github.com/judgegirl/verdict/internal/testutils"
)

func TestInspectorRegistry_Builtins(t *testing.T) {
	r := NewInspectorRegistry()
	assert.Equal(t, []string{InspectorCyclomaticComplexity, InspectorSimilarity}, r.Supported())

	cfg := DefaultConfig().Inspection
	ci, err := r.Create(InspectorCyclomaticComplexity, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, inspection.ReportCyclomaticComplexity, ci.Name())

	si, err := r.Create(InspectorSimilarity, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, inspection.ReportSimilarity, si.Name())
}

func TestInspectorRegistry_Errors(t *testing.T) {
	r := NewInspectorRegistry()

	_, err := r.Create("lint", InspectionConfig{}, nil)
	assert.ErrorContains(t, err, "unsupported inspector")

	_, err = r.Create(InspectorCyclomaticComplexity, InspectionConfig{}, nil)
	assert.ErrorContains(t, err, "failed to create inspector")

	assert.Error(t, r.Register("", func(InspectionConfig, []ports.SourceFile) (ports.Inspector, error) { return nil, nil }))
	assert.Error(t, r.Register("x", nil))
}

func TestInspectorRegistry_Register(t *testing.T) {
	r := NewInspectorRegistry()
	stub := &testutils.StubInspector{ReportName: "lines"}

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register("lines", func(InspectionConfig, []ports.SourceFile) (ports.Inspector, error) { return stub, nil })
			_ = r.Supported()
		}()
	}
	wg.Wait()

	got, err := r.Create("lines", InspectionConfig{}, nil)
	require.NoError(t, err)
	assert.Same(t, stub, got)
}

func TestInspectorRegistry_Pipeline(t *testing.T) {
	r := NewInspectorRegistry()

	none, err := r.Pipeline(InspectionConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	cfg := InspectionConfig{
		ComplexityThreshold: 5,
		SimilarityThreshold: 0.9,
		Enabled:             []string{InspectorSimilarity, InspectorCyclomaticComplexity},
	}
	refs := []ports.SourceFile{{Name: "ref.c", Content: "int main() {}"}}
	pipeline, err := r.Pipeline(cfg, refs)
	require.NoError(t, err)
	assert.Equal(t, inspection.ReportCodeQuality, pipeline.Name())

	report, err := pipeline.Inspect(context.Background(), ports.SourceFile{Name: "main.c", Content: "int main() {}"})
	require.NoError(t, err)
	require.Equal(t, domain.ReportComposite, report.Kind())

	children := report.Children()
	require.Len(t, children, 2)
	assert.Equal(t, inspection.ReportSimilarity, children[0].Name(), "configuration order is kept")
	assert.Equal(t, inspection.ReportCyclomaticComplexity, children[1].Name())
	assert.Equal(t, true, children[0].Payload()["flagged"])
}

func TestInspectorRegistry_CustomInspectorFromConfig(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader("inspection:\n  enabled: [lines]\n"))
	require.NoError(t, err)

	r := NewInspectorRegistry()
	_, err = r.Pipeline(cfg.Inspection, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidConfig)
	var cerr *ports.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "inspection.enabled", cerr.ConfigKey)

	stub := &testutils.StubInspector{ReportName: "lines"}
	require.NoError(t, r.Register("lines", func(InspectionConfig, []ports.SourceFile) (ports.Inspector, error) { return stub, nil }))
	require.NoError(t, r.ValidateConfig(cfg.Inspection))

	pipeline, err := r.Pipeline(cfg.Inspection, nil)
	require.NoError(t, err)
	report, err := pipeline.Inspect(context.Background(), ports.SourceFile{Name: "main.c"})
	require.NoError(t, err)
	_, found := report.Find("lines")
	assert.True(t, found)
	assert.EqualValues(t, 1, stub.Calls())
}
