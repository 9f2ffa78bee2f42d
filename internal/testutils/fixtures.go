// Package testutils provides fixtures and test doubles shared by the
// verdict engine's test suites.
package testutils

import (
	"testing"
	"time"

	"github.com/judgegirl/verdict/internal/domain"
)

// BaseTime is the issue time fixtures are anchored to.
var BaseTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// Judge builds a judge without validation.
func Judge(status domain.OutcomeStatus, grade int, runtimeMS, memoryBytes int64) domain.Judge {
	return domain.Judge{
		Status: status,
		Grade:  grade,
		Profile: domain.ProgramProfile{
			RuntimeMillis:    runtimeMS,
			MemoryUsageBytes: memoryBytes,
		},
	}
}

// Accepted builds an accepted judge.
func Accepted(grade int, runtimeMS int64) domain.Judge {
	return Judge(domain.Accepted, grade, runtimeMS, 1024)
}

// Failed builds a judge with a non-accepted status and no grade.
func Failed(status domain.OutcomeStatus, runtimeMS int64) domain.Judge {
	return Judge(status, 0, runtimeMS, 1024)
}

// MustVerdict builds a judged verdict issued offset after BaseTime,
// failing the test on error.
func MustVerdict(tb testing.TB, offset time.Duration, judges ...domain.Judge) *domain.Verdict {
	tb.Helper()
	v, err := domain.NewVerdict(judges, BaseTime.Add(offset))
	if err != nil {
		tb.Fatalf("NewVerdict: %v", err)
	}
	return v
}

// MustCompileError builds a compile-error verdict issued offset after
// BaseTime, failing the test on error.
func MustCompileError(tb testing.TB, offset time.Duration, message string) *domain.Verdict {
	tb.Helper()
	v, err := domain.NewCompileErrorVerdict(message, BaseTime.Add(offset))
	if err != nil {
		tb.Fatalf("NewCompileErrorVerdict: %v", err)
	}
	return v
}
