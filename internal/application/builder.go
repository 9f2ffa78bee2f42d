package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

// Submission is a judged submission: who submitted what, and its verdict.
type Submission struct {
	ID        string
	StudentID int
	Question  string
	Verdict   *domain.Verdict
}

// VerdictBuilder turns judgement batches into verdicts and runs the
// configured code-quality inspectors on every judged submission.
// It is safe for concurrent use once constructed.
type VerdictBuilder struct {
	inspectors []ports.Inspector
	observer   ports.VerdictObserver
}

// NewVerdictBuilder creates a VerdictBuilder that runs inspectors, in
// order, on every judged submission. observer may be nil.
func NewVerdictBuilder(observer ports.VerdictObserver, inspectors ...ports.Inspector) *VerdictBuilder {
	return &VerdictBuilder{
		inspectors: append([]ports.Inspector(nil), inspectors...),
		observer:   observer,
	}
}

// Build builds the verdict of every submission in the batch.
// Submissions whose verdict cannot be built are skipped and their errors
// joined into the returned error; the rest are still returned. Inspector
// failures are reported the same way but keep the submission.
func (b *VerdictBuilder) Build(ctx context.Context, batch *JudgementBatch) ([]Submission, error) {
	out := make([]Submission, 0, len(batch.Submissions))
	var errs []error
	for _, in := range batch.Submissions {
		if err := ctx.Err(); err != nil {
			return out, errors.Join(append(errs, err)...)
		}
		sub, err := b.BuildOne(ctx, in)
		if sub.Verdict != nil {
			out = append(out, sub)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

// BuildOne builds a single submission's verdict and attaches inspection
// reports. A returned Submission with a nil Verdict means construction
// failed.
func (b *VerdictBuilder) BuildOne(ctx context.Context, in SubmissionInput) (Submission, error) {
	start := time.Now()
	sub := Submission{ID: in.ID, StudentID: in.StudentID, Question: in.Question}

	v, err := in.Verdict()
	if err != nil {
		b.notify(ctx, in.ID, nil, time.Since(start), err)
		return sub, err
	}
	sub.Verdict = v

	var inspectErr error
	if !v.IsCompileError() {
		inspectErr = b.inspect(ctx, v, in.SourceFiles())
	}
	b.notify(ctx, in.ID, v, time.Since(start), nil)
	if inspectErr != nil {
		return sub, fmt.Errorf("submission %s: %w", in.ID, inspectErr)
	}
	return sub, nil
}

func (b *VerdictBuilder) inspect(ctx context.Context, v *domain.Verdict, sources []ports.SourceFile) error {
	var errs []error
	for _, src := range sources {
		for _, inspector := range b.inspectors {
			// A failing inspector may still return a partial report.
			report, err := inspector.Inspect(ctx, src)
			if err != nil {
				errs = append(errs, err)
				if report.IsEmpty() {
					continue
				}
			}
			if err := v.AttachReport(report); err != nil {
				errs = append(errs, ports.NewInspectionError(inspector.Name(), src.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (b *VerdictBuilder) notify(ctx context.Context, id string, v *domain.Verdict, elapsed time.Duration, err error) {
	if b.observer != nil {
		b.observer.VerdictBuilt(ctx, id, v, elapsed, err)
	}
}
