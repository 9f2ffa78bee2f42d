// Package domain contains pure, dependency-free domain models for the
// verdict engine: per-test-case judges, the aggregated verdict, the
// diagnostic report tree and the orderings used to rank submissions.
package domain

// OutcomeStatus is the kind of result produced for a single test case.
type OutcomeStatus string

// Supported outcome statuses.
const (
	// Unevaluated marks a test case the grading pipeline has not finished.
	// It may appear on a Judge but never inside a Verdict.
	Unevaluated OutcomeStatus = "NONE"
	// Accepted is the unique best outcome.
	Accepted OutcomeStatus = "AC"
	// WrongAnswer means the program produced incorrect output.
	WrongAnswer OutcomeStatus = "WA"
	// TimeLimitExceeded means the program ran past its time limit.
	TimeLimitExceeded OutcomeStatus = "TLE"
	// MemoryLimitExceeded means the program used more memory than allowed.
	MemoryLimitExceeded OutcomeStatus = "MLE"
	// OutputLimitExceeded means the program wrote more output than allowed.
	OutputLimitExceeded OutcomeStatus = "OLE"
	// RuntimeError means the program crashed or exited abnormally.
	RuntimeError OutcomeStatus = "RE"
	// SystemError means the judge itself failed on this test case.
	SystemError OutcomeStatus = "SYSERR"
)

// OutcomeStatuses lists every OutcomeStatus in declaration order.
var OutcomeStatuses = []OutcomeStatus{
	Unevaluated,
	Accepted,
	WrongAnswer,
	TimeLimitExceeded,
	MemoryLimitExceeded,
	OutputLimitExceeded,
	RuntimeError,
	SystemError,
}

// IsValid reports whether s is a member of the closed status set.
func (s OutcomeStatus) IsValid() bool {
	for _, known := range OutcomeStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsAccepted reports whether s is Accepted.
func (s OutcomeStatus) IsAccepted() bool { return s == Accepted }

// Summary converts s into the verdict-level status namespace.
func (s OutcomeStatus) Summary() SummaryStatus { return SummaryStatus(s) }

// String returns the short status code.
func (s OutcomeStatus) String() string { return string(s) }

// SummaryStatus is the single status that represents a whole Verdict.
// It takes every OutcomeStatus value plus CompileError.
type SummaryStatus string

// CompileError is the summary of a verdict whose submission did not compile.
// No Judge ever carries it.
const CompileError SummaryStatus = "CE"

// IsCompileError reports whether s is CompileError.
func (s SummaryStatus) IsCompileError() bool { return s == CompileError }

// String returns the short status code.
func (s SummaryStatus) String() string { return string(s) }
