// Package ports defines the interfaces that form the contract between the
// domain/application layers and the infrastructure layer.
package ports

import (
	"context"

	"github.com/judgegirl/verdict/internal/domain"
)

// SourceFile is a submitted source file handed to code-quality stages.
type SourceFile struct {
	// Name is the file name as submitted, e.g. "main.c".
	Name string

	// Content is the file's text.
	Content string
}

// Inspector is a code-quality stage that turns a submission's source into
// a diagnostic report which is then attached to the submission's verdict.
// Inspectors should be stateless and safe for concurrent use.
type Inspector interface {
	// Name returns a unique identifier for this inspector.
	// It is also the name of the leaf report the inspector produces.
	Name() string

	// Inspect analyzes src and returns a report, usually a leaf. Grouping
	// inspectors return a composite of their stages' leaves.
	//
	// Example:
	//
	//	report, err := inspector.Inspect(ctx, src)
	//	if err != nil {
	//	    return fmt.Errorf("inspector %s failed: %w", inspector.Name(), err)
	//	}
	//	err = verdict.AttachReport(report)
	Inspect(ctx context.Context, src SourceFile) (domain.Report, error)
}
