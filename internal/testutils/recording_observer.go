package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var _ ports.VerdictObserver = (*RecordingObserver)(nil)

// BuiltVerdict is one recorded VerdictBuilt notification.
type BuiltVerdict struct {
	SubmissionID string
	Verdict      *domain.Verdict
	Elapsed      time.Duration
	Err          error
}

// BuiltLeaderboard is one recorded LeaderboardBuilt notification.
type BuiltLeaderboard struct {
	Entries int
	Elapsed time.Duration
	Err     error
}

// RecordingObserver records every notification it receives.
// It is safe for concurrent use.
type RecordingObserver struct {
	mu           sync.Mutex
	verdicts     []BuiltVerdict
	leaderboards []BuiltLeaderboard
}

// NewRecordingObserver creates an empty RecordingObserver.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// VerdictBuilt implements ports.VerdictObserver.
func (o *RecordingObserver) VerdictBuilt(_ context.Context, submissionID string, v *domain.Verdict, elapsed time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.verdicts = append(o.verdicts, BuiltVerdict{SubmissionID: submissionID, Verdict: v, Elapsed: elapsed, Err: err})
}

// LeaderboardBuilt implements ports.VerdictObserver.
func (o *RecordingObserver) LeaderboardBuilt(_ context.Context, entries int, elapsed time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaderboards = append(o.leaderboards, BuiltLeaderboard{Entries: entries, Elapsed: elapsed, Err: err})
}

// Verdicts returns a copy of the recorded verdict notifications.
func (o *RecordingObserver) Verdicts() []BuiltVerdict {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]BuiltVerdict(nil), o.verdicts...)
}

// Leaderboards returns a copy of the recorded leaderboard notifications.
func (o *RecordingObserver) Leaderboards() []BuiltLeaderboard {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]BuiltLeaderboard(nil), o.leaderboards...)
}
