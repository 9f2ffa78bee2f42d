package application

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

// BestRecord picks the best submission under domain.CompareVerdicts.
// Equal verdicts are broken by the earlier issue time, then by position.
// Submissions without a verdict are ignored.
func BestRecord(records []Submission) (Submission, bool) {
	var best Submission
	found := false
	for _, r := range records {
		if r.Verdict == nil {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		c := domain.CompareVerdicts(r.Verdict, best.Verdict)
		if c > 0 || (c == 0 && r.Verdict.IssueTime().Before(best.Verdict.IssueTime())) {
			best = r
		}
	}
	return best, found
}

// LeaderboardEntry is one student's row on a leaderboard.
type LeaderboardEntry struct {
	// Rank uses standard competition ranking: equal scores share a rank
	// and the next rank skips accordingly (1, 2, 2, 4).
	Rank      int
	StudentID int
	// TotalScore sums the student's best score on every question.
	TotalScore int
	// AcceptedQuestions counts questions whose best verdict is Accepted.
	AcceptedQuestions int
	// Best holds the student's best record per question key.
	Best map[string]Submission
}

// Ranker computes leaderboards from judged submissions.
type Ranker struct {
	cfg         *EngineConfig
	concurrency int
	observer    ports.VerdictObserver
}

// NewRanker creates a Ranker. A nil cfg falls back to DefaultConfig, and a
// MaxConcurrency below 1 falls back to the default limit.
func NewRanker(cfg *EngineConfig, observer ports.VerdictObserver) *Ranker {
	defaults := DefaultConfig()
	if cfg == nil {
		cfg = defaults
	}
	concurrency := cfg.Ranking.MaxConcurrency
	if concurrency < 1 {
		concurrency = defaults.Ranking.MaxConcurrency
	}
	return &Ranker{cfg: cfg, concurrency: concurrency, observer: observer}
}

// BuildLeaderboard ranks every student that submitted to one of the given
// questions. Students are ranked by total score, then by the number of
// accepted questions, both descending; remaining ties are listed by
// student id but share a rank only when their scores are equal.
func (rk *Ranker) BuildLeaderboard(
	ctx context.Context,
	questions []ExamQuestion,
	records []Submission,
) (entries []LeaderboardEntry, err error) {
	start := time.Now()
	defer func() {
		if rk.observer != nil {
			rk.observer.LeaderboardBuilt(ctx, len(entries), time.Since(start), err)
		}
	}()

	points := make(map[string]int, len(questions))
	for _, q := range questions {
		if _, dup := points[q.Key]; dup {
			return nil, fmt.Errorf("duplicate question key %q", q.Key)
		}
		points[q.Key] = q.Points
	}

	byStudent := make(map[int][]Submission)
	for _, r := range records {
		if _, ok := points[r.Question]; !ok || r.Verdict == nil {
			continue
		}
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	students := make([]int, 0, len(byStudent))
	for id := range byStudent {
		students = append(students, id)
	}
	slices.Sort(students)

	entries = make([]LeaderboardEntry, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rk.concurrency)
	for i, id := range students {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = rk.scoreStudent(id, byStudent[id], points)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AcceptedQuestions, a.AcceptedQuestions); c != 0 {
			return c
		}
		return cmp.Compare(a.StudentID, b.StudentID)
	})
	for i := range entries {
		entries[i].Rank = i + 1
		if i > 0 && entries[i].TotalScore == entries[i-1].TotalScore {
			entries[i].Rank = entries[i-1].Rank
		}
	}
	return entries, nil
}

func (rk *Ranker) scoreStudent(studentID int, records []Submission, points map[string]int) LeaderboardEntry {
	byQuestion := make(map[string][]Submission)
	for _, r := range records {
		byQuestion[r.Question] = append(byQuestion[r.Question], r)
	}

	entry := LeaderboardEntry{StudentID: studentID, Best: make(map[string]Submission, len(byQuestion))}
	for key, subs := range byQuestion {
		best, ok := BestRecord(subs)
		if !ok {
			continue
		}
		entry.Best[key] = best
		entry.TotalScore += QuestionScore(points[key], best.Verdict, rk.cfg.Scoring)
		if status, err := best.Verdict.SummaryStatus(); err == nil && status == domain.Accepted.Summary() {
			entry.AcceptedQuestions++
		}
	}
	return entry
}
