package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

// Supported judgement batch formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// JudgementBatch is a document produced by the grading pipeline holding
// the raw judgements of one or more submissions.
type JudgementBatch struct {
	// Questions lists the exam questions scored on the leaderboard. When
	// empty, Questions derives them from the submissions.
	ExamQuestions []ExamQuestion `yaml:"questions" json:"questions" validate:"dive"`
	// References are sources submissions are compared against by the
	// similarity inspector.
	References  []SourceInput     `yaml:"references" json:"references" validate:"dive"`
	Submissions []SubmissionInput `yaml:"submissions" json:"submissions" validate:"required,min=1,dive"`
}

// SubmissionInput carries the judgements of a single submission.
// Exactly one of Judges and CompileError must be set.
type SubmissionInput struct {
	ID           string        `yaml:"id" json:"id" validate:"required,max=128"`
	StudentID    int           `yaml:"student_id" json:"student_id" validate:"min=0"`
	Question     string        `yaml:"question" json:"question" validate:"required,max=128"`
	IssueTime    time.Time     `yaml:"issue_time" json:"issue_time"`
	CompileError string        `yaml:"compile_error" json:"compile_error" validate:"max=65536"`
	Judges       []JudgeInput  `yaml:"judges" json:"judges" validate:"dive"`
	Sources      []SourceInput `yaml:"sources" json:"sources" validate:"dive"`
}

// JudgeInput is the raw judgement of one test case.
type JudgeInput struct {
	Status      string `yaml:"status" json:"status" validate:"required,outcomestatus"`
	Grade       int    `yaml:"grade" json:"grade" validate:"min=0"`
	RuntimeMS   int64  `yaml:"runtime_ms" json:"runtime_ms" validate:"min=0"`
	MemoryBytes int64  `yaml:"memory_bytes" json:"memory_bytes" validate:"min=0"`
}

// SourceInput is a submitted source file, handed to inspectors.
type SourceInput struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Content string `yaml:"content" json:"content"`
}

// DecodeBatch reads a batch in the given format and validates its shape.
// Verdict invariants are checked later by SubmissionInput.Verdict.
func DecodeBatch(r io.Reader, format string) (*JudgementBatch, error) {
	var batch JudgementBatch
	switch format {
	case FormatYAML, "yml":
		if err := yaml.NewDecoder(r).Decode(&batch); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML batch: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&batch); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse JSON batch: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
	}

	v, err := newValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Struct(&batch); err != nil {
		return nil, describeValidationErrors("JudgementBatch", err)
	}

	seen := make(map[string]struct{}, len(batch.Submissions))
	for _, s := range batch.Submissions {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("duplicate submission id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return &batch, nil
}

// Questions returns the batch's exam questions. Without an explicit list,
// every question key seen in the submissions is returned, in order of
// first appearance, worth defaultPoints with no quota.
func (b *JudgementBatch) Questions(defaultPoints int) []ExamQuestion {
	if len(b.ExamQuestions) > 0 {
		return append([]ExamQuestion(nil), b.ExamQuestions...)
	}
	seen := make(map[string]struct{})
	var out []ExamQuestion
	for _, s := range b.Submissions {
		if _, ok := seen[s.Question]; ok {
			continue
		}
		seen[s.Question] = struct{}{}
		out = append(out, ExamQuestion{Key: s.Question, Points: defaultPoints})
	}
	return out
}

// ReferenceFiles converts the batch's reference sources for inspectors.
func (b *JudgementBatch) ReferenceFiles() []ports.SourceFile {
	return toSourceFiles(b.References)
}

// Verdict builds the domain verdict of the submission.
func (s SubmissionInput) Verdict() (*domain.Verdict, error) {
	judges := make([]domain.Judge, 0, len(s.Judges))
	for i, in := range s.Judges {
		j, err := in.Judge()
		if err != nil {
			return nil, fmt.Errorf("submission %s judge %d: %w", s.ID, i, err)
		}
		judges = append(judges, j)
	}
	v, err := domain.FromParts(judges, s.CompileError, s.IssueTime)
	if err != nil {
		return nil, fmt.Errorf("submission %s: %w", s.ID, err)
	}
	return v, nil
}

// Judge converts the raw judgement into a domain Judge.
func (in JudgeInput) Judge() (domain.Judge, error) {
	status, err := ParseOutcomeStatus(in.Status)
	if err != nil {
		return domain.Judge{}, fmt.Errorf("%w: %w", domain.ErrInvalidJudge, err)
	}
	profile, err := domain.NewProgramProfile(in.RuntimeMS, in.MemoryBytes)
	if err != nil {
		return domain.Judge{}, fmt.Errorf("%w: %w", domain.ErrInvalidJudge, err)
	}
	return domain.NewJudge(status, in.Grade, profile)
}

// SourceFiles converts the submission's sources for inspectors.
func (s SubmissionInput) SourceFiles() []ports.SourceFile {
	return toSourceFiles(s.Sources)
}

func toSourceFiles(sources []SourceInput) []ports.SourceFile {
	files := make([]ports.SourceFile, 0, len(sources))
	for _, src := range sources {
		files = append(files, ports.SourceFile{Name: src.Name, Content: src.Content})
	}
	return files
}
