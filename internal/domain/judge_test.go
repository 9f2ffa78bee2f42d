package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeStatus(t *testing.T) {
	for _, s := range OutcomeStatuses {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, OutcomeStatus("CE").IsValid(), "compile error is a verdict-level status only")
	assert.False(t, OutcomeStatus("").IsValid())
	assert.False(t, OutcomeStatus("ac").IsValid(), "statuses are case sensitive in the domain")

	assert.True(t, Accepted.IsAccepted())
	assert.False(t, WrongAnswer.IsAccepted())
	assert.Equal(t, SummaryStatus("TLE"), TimeLimitExceeded.Summary())
	assert.Equal(t, "RE", RuntimeError.String())
	assert.False(t, Accepted.Summary().IsCompileError())
}

func TestNewProgramProfile(t *testing.T) {
	p, err := NewProgramProfile(10, 2048)
	require.NoError(t, err)
	assert.Equal(t, ProgramProfile{RuntimeMillis: 10, MemoryUsageBytes: 2048}, p)

	_, err = NewProgramProfile(-1, 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)
	_, err = NewProgramProfile(0, -1)
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestNewJudge(t *testing.T) {
	profile := ProgramProfile{RuntimeMillis: 1, MemoryUsageBytes: 1}

	tests := []struct {
		name    string
		status  OutcomeStatus
		grade   int
		profile ProgramProfile
		wantErr error
	}{
		{"accepted", Accepted, 10, profile, nil},
		{"unevaluated allowed on a judge", Unevaluated, 0, profile, nil},
		{"unknown status", "CE", 0, profile, ErrUnknownStatus},
		{"negative grade", WrongAnswer, -3, profile, ErrInvalidJudge},
		{"negative runtime", WrongAnswer, 0, ProgramProfile{RuntimeMillis: -1}, ErrInvalidProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := NewJudge(tt.status, tt.grade, tt.profile)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrInvalidJudge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, j.Status)
			assert.Equal(t, tt.grade, j.Grade)
		})
	}
}

func TestCompareJudges(t *testing.T) {
	tests := []struct {
		name string
		a, b Judge
		want int
	}{
		{"accepted beats higher graded failure", judge(Accepted, 1, 1, 1), judge(WrongAnswer, 100, 1, 1), 1},
		{"failure loses to accepted", judge(RuntimeError, 100, 1, 1), judge(Accepted, 0, 1, 1), -1},
		{"higher grade wins among accepted", judge(Accepted, 20, 1, 1), judge(Accepted, 10, 1, 1), 1},
		{"higher grade wins among failures", judge(WrongAnswer, 5, 1, 1), judge(TimeLimitExceeded, 7, 1, 1), -1},
		{"failure kinds are peers", judge(WrongAnswer, 0, 1, 1), judge(TimeLimitExceeded, 0, 1, 1), 0},
		{"faster wins on equal grade", judge(Accepted, 10, 50, 1), judge(Accepted, 10, 80, 1), 1},
		{"smaller memory wins on equal runtime", judge(Accepted, 10, 50, 900), judge(Accepted, 10, 50, 100), -1},
		{"identical", judge(Accepted, 10, 50, 100), judge(Accepted, 10, 50, 100), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareJudges(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareJudges(tt.b, tt.a), "comparator must be antisymmetric")
		})
	}
}
