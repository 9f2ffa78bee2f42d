package inspection

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var (
	_ ports.Inspector = (*SimilarityInspector)(nil)

	// foldCaser is a package-level Unicode case folder shared by all
	// similarity inspectors.
	foldCaser = cases.Fold()
)

// SimilarityInspector compares a submission against reference sources,
// such as an instructor's solution or earlier submissions, using a
// normalized Levenshtein ratio. Sources are case-folded and whitespace is
// collapsed before comparison so reformatting alone does not hide a copy.
// The inspector is safe for concurrent use.
type SimilarityInspector struct {
	config     SimilarityConfig
	references []ports.SourceFile
	prepared   []string
	tracer     trace.Tracer
}

// SimilarityConfig configures a SimilarityInspector.
type SimilarityConfig struct {
	// Threshold is the ratio at or above which a submission is flagged.
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gt=0,max=1"`
}

// NewSimilarityInspector creates a SimilarityInspector over references.
func NewSimilarityInspector(config SimilarityConfig, references []ports.SourceFile) (*SimilarityInspector, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	prepared := make([]string, len(references))
	for i, ref := range references {
		if len(ref.Content) > MaxSourceLength {
			return nil, fmt.Errorf("reference %s: %w", ref.Name, ErrSourceTooLarge)
		}
		prepared[i] = normalizeSource(ref.Content)
		if err := checkSimilarityLength(prepared[i]); err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref.Name, err)
		}
	}
	return &SimilarityInspector{
		config:     config,
		references: append([]ports.SourceFile(nil), references...),
		prepared:   prepared,
		tracer:     otel.Tracer("similarity-inspector"),
	}, nil
}

// Name returns the name of the report this inspector produces.
func (si *SimilarityInspector) Name() string { return ReportSimilarity }

// Inspect reports the closest reference to src and its similarity ratio.
func (si *SimilarityInspector) Inspect(ctx context.Context, src ports.SourceFile) (domain.Report, error) {
	_, span := si.tracer.Start(ctx, "SimilarityInspector.Inspect",
		trace.WithAttributes(
			attribute.String("source.name", src.Name),
			attribute.Int("config.references", len(si.references)),
			attribute.Float64("config.threshold", si.config.Threshold),
		),
	)
	defer span.End()

	if len(src.Content) > MaxSourceLength {
		err := fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrSourceTooLarge, len(src.Content), MaxSourceLength)
		span.RecordError(err)
		return domain.Report{}, ports.NewInspectionError(si.Name(), src.Name, err)
	}

	candidate := normalizeSource(src.Content)
	if err := checkSimilarityLength(candidate); err != nil {
		span.RecordError(err)
		return domain.Report{}, ports.NewInspectionError(si.Name(), src.Name, err)
	}
	bestName, bestRatio := "", 0.0
	for i, ref := range si.prepared {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return domain.Report{}, ports.NewInspectionError(si.Name(), src.Name, err)
		}
		if r := similarity(candidate, ref); r > bestRatio || bestName == "" {
			bestName, bestRatio = si.references[i].Name, r
		}
	}
	flagged := bestName != "" && bestRatio >= si.config.Threshold

	span.SetAttributes(
		attribute.Float64("inspection.ratio", bestRatio),
		attribute.Bool("inspection.flagged", flagged),
	)

	return domain.LeafReport(si.Name(), map[string]any{
		"source":     src.Name,
		"best_match": bestName,
		"ratio":      bestRatio,
		"threshold":  si.config.Threshold,
		"flagged":    flagged,
	}), nil
}

// normalizeSource case-folds s and collapses every whitespace run into a
// single space.
func normalizeSource(s string) string {
	return strings.Join(strings.Fields(foldCaser.String(s)), " ")
}

func checkSimilarityLength(normalized string) error {
	if n := utf8.RuneCountInString(normalized); n > MaxSimilarityRunes {
		return fmt.Errorf("%w: %d runes exceeds similarity limit of %d", ErrSourceTooLarge, n, MaxSimilarityRunes)
	}
	return nil
}

// similarity returns 1 - distance/maxLen over runes, in [0, 1].
// Two empty strings are identical.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	ratio := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	return max(ratio, 0)
}
