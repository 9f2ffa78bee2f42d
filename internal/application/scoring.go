package application

import (
	"github.com/judgegirl/verdict/internal/domain"
)

// ExamQuestion is the part of an exam question the scorer needs.
type ExamQuestion struct {
	// Key identifies the question within the exam, e.g. "1-2".
	Key string `yaml:"key" json:"key" validate:"required"`
	// Points is the score awarded for a full-grade verdict.
	Points int `yaml:"points" json:"points" validate:"min=0"`
	// Quota is the number of submissions a student may make.
	Quota int `yaml:"quota" json:"quota" validate:"min=0"`
}

// QuestionOverview is one row of a student's exam overview.
type QuestionOverview struct {
	Question       ExamQuestion
	BestRecord     *Submission
	Score          int
	RemainingQuota int
}

// QuestionScore scales a question's points by the verdict's total grade.
// A nil verdict or a compile error scores 0. The result is rounded per
// cfg.Rounding and clamped to [0, points].
func QuestionScore(points int, v *domain.Verdict, cfg ScoringConfig) int {
	if v == nil || v.IsCompileError() || points <= 0 || cfg.FullGrade <= 0 {
		return 0
	}
	num := int64(points) * int64(v.TotalGrade())
	den := int64(cfg.FullGrade)

	var score int64
	switch cfg.Rounding {
	case RoundCeil:
		score = (num + den - 1) / den
	case RoundHalf:
		score = (2*num + den) / (2 * den)
	default:
		score = num / den
	}
	return int(min(max(score, 0), int64(points)))
}

// RemainingQuota returns how many submissions are left, never negative.
func RemainingQuota(quota, answerCount int) int {
	return max(quota-answerCount, 0)
}

// ExamOverview summarizes a student's standing on every question: the
// best record, the score it earns and the remaining submission quota.
// Records of other students are ignored.
func ExamOverview(
	questions []ExamQuestion,
	studentID int,
	records []Submission,
	cfg ScoringConfig,
) []QuestionOverview {
	byQuestion := make(map[string][]Submission)
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		byQuestion[r.Question] = append(byQuestion[r.Question], r)
	}

	out := make([]QuestionOverview, 0, len(questions))
	for _, q := range questions {
		answers := byQuestion[q.Key]
		row := QuestionOverview{
			Question:       q,
			RemainingQuota: RemainingQuota(q.Quota, len(answers)),
		}
		if best, ok := BestRecord(answers); ok {
			row.BestRecord = &best
			row.Score = QuestionScore(q.Points, best.Verdict, cfg)
		}
		out = append(out, row)
	}
	return out
}
