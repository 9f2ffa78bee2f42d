package inspection

import (
	"context"
	"errors"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var _ ports.Inspector = (*CodeQualityInspection)(nil)

// CodeQualityInspection runs several inspectors over a source file and
// groups their leaves under one composite report.
type CodeQualityInspection struct {
	inspectors []ports.Inspector
}

// NewCodeQualityInspection creates a CodeQualityInspection.
func NewCodeQualityInspection(inspectors ...ports.Inspector) (*CodeQualityInspection, error) {
	if len(inspectors) == 0 {
		return nil, ErrNoInspectors
	}
	return &CodeQualityInspection{inspectors: append([]ports.Inspector(nil), inspectors...)}, nil
}

// Name returns the name of the grouped report.
func (cq *CodeQualityInspection) Name() string { return ReportCodeQuality }

// Inspect runs every inspector in order and returns a composite of their
// reports. Failing inspectors are skipped and their errors joined; the
// composite of the successful ones is still returned.
func (cq *CodeQualityInspection) Inspect(ctx context.Context, src ports.SourceFile) (domain.Report, error) {
	report := domain.EmptyReport()
	var errs []error
	for _, inspector := range cq.inspectors {
		leaf, err := inspector.Inspect(ctx, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		next, err := report.Attach(leaf)
		if err != nil {
			errs = append(errs, ports.NewInspectionError(inspector.Name(), src.Name, err))
			continue
		}
		report = next
	}
	return report, errors.Join(errs...)
}

// AttachTo inspects every source and attaches the resulting reports to v.
func (cq *CodeQualityInspection) AttachTo(ctx context.Context, v *domain.Verdict, sources ...ports.SourceFile) error {
	var errs []error
	for _, src := range sources {
		report, err := cq.Inspect(ctx, src)
		if err != nil {
			errs = append(errs, err)
			if report.IsEmpty() {
				continue
			}
		}
		if err := v.AttachReport(report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
