package testutils

import (
	"context"
	"sync/atomic"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var _ ports.Inspector = (*StubInspector)(nil)

// StubInspector returns a fixed leaf per source, or Err when set.
type StubInspector struct {
	ReportName string
	Err        error

	calls atomic.Int64
}

// Name implements ports.Inspector.
func (s *StubInspector) Name() string { return s.ReportName }

// Inspect implements ports.Inspector.
func (s *StubInspector) Inspect(_ context.Context, src ports.SourceFile) (domain.Report, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return domain.Report{}, ports.NewInspectionError(s.ReportName, src.Name, s.Err)
	}
	return domain.LeafReport(s.ReportName, map[string]any{"source": src.Name}), nil
}

// Calls returns how many times Inspect ran.
func (s *StubInspector) Calls() int64 { return s.calls.Load() }
