package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Verdict is the aggregate outcome of one submission across all of its
// test cases, or a compile-error marker.
//
// Exactly one of the following holds for every Verdict:
//   - it has at least one Judge and none of them is Unevaluated;
//   - it has no Judges and a trimmed, non-blank compile error message.
//
// A Verdict is owned by a single submission record. Only the report and
// the issue time may change after construction, and those setters expect a
// single writer; every query is safe for concurrent readers.
type Verdict struct {
	judges              []Judge
	compileErrorMessage string
	issueTime           time.Time
	report              Report
}

// NewVerdict creates a judged Verdict from an ordered list of judges.
// A zero issueTime is replaced by the current time.
// It fails with ErrInvalidVerdict when judges is empty or contains an
// Unevaluated judge.
func NewVerdict(judges []Judge, issueTime time.Time) (*Verdict, error) {
	if len(judges) == 0 {
		return nil, NewInvalidVerdictError(RuleAtLeastOneJudge, "verdict must have at least one judge")
	}
	for i, j := range judges {
		if j.Status == Unevaluated {
			return nil, NewInvalidVerdictError(RuleNoUnevaluatedJudge,
				fmt.Sprintf("judge %d has status %s", i, Unevaluated))
		}
		if err := j.validate(); err != nil {
			return nil, fmt.Errorf("%w: judge %d: %w", ErrInvalidVerdict, i, err)
		}
	}
	return &Verdict{
		judges:    slices.Clone(judges),
		issueTime: issueTimeOrNow(issueTime),
	}, nil
}

// NewCompileErrorVerdict creates a Verdict for a submission that failed to
// compile. The message is stored trimmed.
// A zero issueTime is replaced by the current time.
// It fails with ErrInvalidVerdict when the trimmed message is blank.
func NewCompileErrorVerdict(message string, issueTime time.Time) (*Verdict, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, NewInvalidVerdictError(RuleNonBlankCompileError, "compile error message must not be blank")
	}
	return &Verdict{
		compileErrorMessage: trimmed,
		issueTime:           issueTimeOrNow(issueTime),
	}, nil
}

func issueTimeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// Judges returns a copy of the verdict's judges in their original order.
func (v *Verdict) Judges() []Judge { return slices.Clone(v.judges) }

// CompileErrorMessage returns the trimmed compile error, or "".
func (v *Verdict) CompileErrorMessage() string { return v.compileErrorMessage }

// IsCompileError reports whether the verdict carries a compile error.
func (v *Verdict) IsCompileError() bool { return v.compileErrorMessage != "" }

// IssueTime returns when the verdict was issued.
func (v *Verdict) IssueTime() time.Time { return v.issueTime }

// SetIssueTime overrides the issue time.
func (v *Verdict) SetIssueTime(t time.Time) { v.issueTime = t }

// Report returns the attached diagnostic report.
func (v *Verdict) Report() Report { return v.report }

// AttachReport appends r to the verdict's report, promoting an Empty
// report to a Composite first.
func (v *Verdict) AttachReport(r Report) error {
	next, err := v.report.Attach(r)
	if err != nil {
		return err
	}
	v.report = next
	return nil
}

// SetReport replaces the verdict's report. A leaf cannot be installed at
// the top level.
func (v *Verdict) SetReport(r Report) error {
	if r.Kind() == ReportLeaf {
		return fmt.Errorf("%w: top-level report must be empty or composite", ErrAttachToLeaf)
	}
	v.report = r
	return nil
}

// TotalGrade returns the sum of all judge grades, or 0 without judges.
func (v *Verdict) TotalGrade() int {
	total := 0
	for _, j := range v.judges {
		total += j.Grade
	}
	return total
}

// AcceptedCount returns the number of Accepted judges.
func (v *Verdict) AcceptedCount() int {
	n := 0
	for _, j := range v.judges {
		if j.IsAccepted() {
			n++
		}
	}
	return n
}

// SummaryStatus returns the single status representing the verdict.
//
// A compile error summarizes as CompileError. Otherwise the summary is
// Accepted when every judge is Accepted, and the status of the first
// non-Accepted judge in list order when any is not. Later failures never
// override an earlier one regardless of their kind.
func (v *Verdict) SummaryStatus() (SummaryStatus, error) {
	if v.IsCompileError() {
		return CompileError, nil
	}
	if len(v.judges) == 0 {
		return "", NewInvalidVerdictError(RuleJudgesPresent, "verdict has no judges")
	}
	for _, j := range v.judges {
		if !j.IsAccepted() {
			return j.Status.Summary(), nil
		}
	}
	return Accepted.Summary(), nil
}

// MaximumRuntime returns the largest runtime among the judges, or 0 for a
// compile error.
func (v *Verdict) MaximumRuntime() (int64, error) {
	return v.maxProfile(func(p ProgramProfile) int64 { return p.RuntimeMillis })
}

// MaximumMemoryUsage returns the largest memory usage among the judges, or
// 0 for a compile error.
func (v *Verdict) MaximumMemoryUsage() (int64, error) {
	return v.maxProfile(func(p ProgramProfile) int64 { return p.MemoryUsageBytes })
}

func (v *Verdict) maxProfile(field func(ProgramProfile) int64) (int64, error) {
	if v.IsCompileError() {
		return 0, nil
	}
	if len(v.judges) == 0 {
		return 0, NewInvalidVerdictError(RuleJudgesPresent, "verdict has no judges")
	}
	m := field(v.judges[0].Profile)
	for _, j := range v.judges[1:] {
		m = max(m, field(j.Profile))
	}
	return m, nil
}

// BestJudge returns the highest judge under CompareJudges. The earliest
// judge wins ties. It returns false for a compile error.
func (v *Verdict) BestJudge() (Judge, bool) {
	return v.pickJudge(1)
}

// WorstJudge returns the lowest judge under CompareJudges. The earliest
// judge wins ties. It returns false for a compile error.
func (v *Verdict) WorstJudge() (Judge, bool) {
	return v.pickJudge(-1)
}

func (v *Verdict) pickJudge(sign int) (Judge, bool) {
	if v.IsCompileError() || len(v.judges) == 0 {
		return Judge{}, false
	}
	picked := v.judges[0]
	for _, j := range v.judges[1:] {
		if CompareJudges(j, picked)*sign > 0 {
			picked = j
		}
	}
	return picked, true
}

// CompareTo ranks v against other; see CompareVerdicts.
func (v *Verdict) CompareTo(other *Verdict) int { return CompareVerdicts(v, other) }

// CompareVerdicts ranks two verdicts and returns -1, 0 or +1.
//
// Compile errors rank below every judged verdict and equal to each other.
// Judged verdicts rank by total grade; equal totals fall back to comparing
// their best judges with CompareJudges.
func CompareVerdicts(a, b *Verdict) int {
	switch {
	case a.IsCompileError() && b.IsCompileError():
		return 0
	case a.IsCompileError():
		return -1
	case b.IsCompileError():
		return 1
	}
	if c := compareInts(int64(a.TotalGrade()), int64(b.TotalGrade())); c != 0 {
		return c
	}
	ba, okA := a.BestJudge()
	bb, okB := b.BestJudge()
	if !okA || !okB {
		return compareBools(okA, okB)
	}
	return CompareJudges(ba, bb)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

// MaxVerdict returns the best verdict in vs under CompareVerdicts.
// The earliest verdict wins ties and nil entries are skipped.
func MaxVerdict(vs []*Verdict) (*Verdict, bool) {
	var best *Verdict
	for _, v := range vs {
		if v == nil {
			continue
		}
		if best == nil || CompareVerdicts(v, best) > 0 {
			best = v
		}
	}
	return best, best != nil
}

// SortVerdicts sorts vs best first, keeping the input order of equal
// verdicts. vs must not contain nil entries.
func SortVerdicts(vs []*Verdict) {
	slices.SortStableFunc(vs, func(a, b *Verdict) int { return CompareVerdicts(b, a) })
}

type verdictDocument struct {
	Judges              []Judge   `json:"judges,omitempty"`
	CompileErrorMessage string    `json:"compile_error_message,omitempty"`
	IssueTime           time.Time `json:"issue_time"`
	Report              Report    `json:"report"`
}

// MarshalJSON encodes the verdict as a flat document.
func (v *Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(verdictDocument{
		Judges:              v.judges,
		CompileErrorMessage: v.compileErrorMessage,
		IssueTime:           v.issueTime,
		Report:              v.report,
	})
}

// UnmarshalJSON decodes a verdict document through the same constructors
// used by NewVerdict and NewCompileErrorVerdict.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var doc verdictDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	built, err := FromParts(doc.Judges, doc.CompileErrorMessage, doc.IssueTime)
	if err != nil {
		return err
	}
	if err := built.SetReport(doc.Report); err != nil {
		return err
	}
	*v = *built
	return nil
}

// FromParts builds a Verdict from either judges or a compile error
// message. Supplying both, or neither, fails with ErrInvalidVerdict.
func FromParts(judges []Judge, compileErrorMessage string, issueTime time.Time) (*Verdict, error) {
	hasMessage := strings.TrimSpace(compileErrorMessage) != ""
	switch {
	case hasMessage && len(judges) > 0:
		return nil, NewInvalidVerdictError(RuleJudgesXorCompileError,
			"verdict cannot have both judges and a compile error")
	case hasMessage:
		return NewCompileErrorVerdict(compileErrorMessage, issueTime)
	default:
		return NewVerdict(judges, issueTime)
	}
}
