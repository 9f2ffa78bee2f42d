package domain

import "fmt"

// Judge is the verdict of a single test case.
// Judges are values: a Verdict keeps its own copy of every Judge it holds.
type Judge struct {
	// Status is the outcome kind of this test case.
	Status OutcomeStatus `json:"status"`

	// Grade is the number of points awarded for this test case.
	Grade int `json:"grade"`

	// Profile holds the runtime and memory measurements of the execution.
	Profile ProgramProfile `json:"profile"`
}

// NewJudge creates a Judge after checking its status, grade and profile.
// Unevaluated is accepted here; it is rejected only when the judge is put
// into a Verdict.
func NewJudge(status OutcomeStatus, grade int, profile ProgramProfile) (Judge, error) {
	j := Judge{Status: status, Grade: grade, Profile: profile}
	if err := j.validate(); err != nil {
		return Judge{}, err
	}
	return j, nil
}

func (j Judge) validate() error {
	if !j.Status.IsValid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidJudge, ErrUnknownStatus, string(j.Status))
	}
	if j.Grade < 0 {
		return fmt.Errorf("%w: grade %d is negative", ErrInvalidJudge, j.Grade)
	}
	if err := j.Profile.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJudge, err)
	}
	return nil
}

// IsAccepted reports whether the judge passed its test case.
func (j Judge) IsAccepted() bool { return j.Status.IsAccepted() }

// CompareJudges orders judges from worst to best and returns -1, 0 or +1.
//
// The order is, by priority:
//  1. an Accepted judge ranks above every non-Accepted judge;
//  2. a higher grade ranks higher;
//  3. a lower runtime ranks higher;
//  4. a lower memory usage ranks higher.
//
// Non-Accepted statuses are peers: WA and TLE with the same grade and
// profile compare equal.
func CompareJudges(a, b Judge) int {
	if a.IsAccepted() != b.IsAccepted() {
		if a.IsAccepted() {
			return 1
		}
		return -1
	}
	if c := compareInts(int64(a.Grade), int64(b.Grade)); c != 0 {
		return c
	}
	if c := compareInts(b.Profile.RuntimeMillis, a.Profile.RuntimeMillis); c != 0 {
		return c
	}
	return compareInts(b.Profile.MemoryUsageBytes, a.Profile.MemoryUsageBytes)
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
