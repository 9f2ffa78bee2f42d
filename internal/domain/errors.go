package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned while building and querying verdicts.
var (
	// ErrInvalidVerdict indicates that a Verdict would violate one of its
	// construction invariants, or that a query was made against a state
	// those invariants rule out.
	ErrInvalidVerdict = errors.New("invalid verdict")

	// ErrInvalidJudge indicates that a Judge was built from an unknown
	// status or a negative grade.
	ErrInvalidJudge = errors.New("invalid judge")

	// ErrInvalidProfile indicates that a ProgramProfile has a negative
	// runtime or memory usage.
	ErrInvalidProfile = errors.New("invalid program profile")

	// ErrAttachToLeaf indicates an attempt to attach a sub-report to a leaf
	// report, or to install a leaf as a verdict's top-level report.
	ErrAttachToLeaf = errors.New("cannot attach to a leaf report")

	// ErrUnknownStatus indicates that a status string does not name any
	// OutcomeStatus.
	ErrUnknownStatus = errors.New("unknown outcome status")
)

// Verdict rules reported by InvalidVerdictError.
const (
	RuleAtLeastOneJudge       = "at-least-one-judge"
	RuleNoUnevaluatedJudge    = "no-unevaluated-judge"
	RuleNonBlankCompileError  = "non-blank-compile-error"
	RuleJudgesPresent         = "judges-present"
	RuleJudgesXorCompileError = "judges-xor-compile-error"
)

// InvalidVerdictError reports which verdict rule was broken.
// It always unwraps to ErrInvalidVerdict.
type InvalidVerdictError struct {
	// Rule is the short identifier of the violated rule.
	Rule string

	// Reason is a human readable explanation.
	Reason string
}

// Error implements the error interface for InvalidVerdictError.
func (e *InvalidVerdictError) Error() string {
	return fmt.Sprintf("invalid verdict: rule=%s, reason=%s", e.Rule, e.Reason)
}

// Unwrap returns ErrInvalidVerdict so callers can match with errors.Is.
func (e *InvalidVerdictError) Unwrap() error { return ErrInvalidVerdict }

// NewInvalidVerdictError creates a new InvalidVerdictError.
func NewInvalidVerdictError(rule, reason string) *InvalidVerdictError {
	return &InvalidVerdictError{Rule: rule, Reason: reason}
}

// ValidationError represents an error that occurred during validation.
// It can contain multiple validation failures.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
