package inspection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

var _ ports.Inspector = (*ComplexityInspector)(nil)

// decisionKeywords are the C-family keywords that open a new branch.
var decisionKeywords = map[string]struct{}{
	"if":    {},
	"for":   {},
	"while": {},
	"case":  {},
	"catch": {},
}

// ComplexityInspector estimates the cyclomatic complexity of a C-family
// source file as the number of decision points plus one. Decision points
// are branch keywords and the &&, || and ?: operators found outside
// comments and literals.
// The inspector is stateless and safe for concurrent use.
type ComplexityInspector struct {
	config ComplexityConfig
	tracer trace.Tracer
}

// ComplexityConfig configures a ComplexityInspector.
type ComplexityConfig struct {
	// Threshold is the complexity above which the report is flagged.
	Threshold int `yaml:"threshold" json:"threshold" validate:"required,min=1,max=1000"`
}

// NewComplexityInspector creates a ComplexityInspector.
func NewComplexityInspector(config ComplexityConfig) (*ComplexityInspector, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &ComplexityInspector{
		config: config,
		tracer: otel.Tracer("complexity-inspector"),
	}, nil
}

// Name returns the name of the report this inspector produces.
func (ci *ComplexityInspector) Name() string { return ReportCyclomaticComplexity }

// Inspect computes the complexity of src.
func (ci *ComplexityInspector) Inspect(ctx context.Context, src ports.SourceFile) (domain.Report, error) {
	_, span := ci.tracer.Start(ctx, "ComplexityInspector.Inspect",
		trace.WithAttributes(
			attribute.String("source.name", src.Name),
			attribute.Int("config.threshold", ci.config.Threshold),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return domain.Report{}, ports.NewInspectionError(ci.Name(), src.Name, err)
	}
	if len(src.Content) > MaxSourceLength {
		err := fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrSourceTooLarge, len(src.Content), MaxSourceLength)
		span.RecordError(err)
		return domain.Report{}, ports.NewInspectionError(ci.Name(), src.Name, err)
	}

	start := time.Now()
	complexity := CyclomaticComplexity(src.Content)
	exceeded := complexity > ci.config.Threshold

	span.SetAttributes(
		attribute.Int("inspection.complexity", complexity),
		attribute.Bool("inspection.exceeded", exceeded),
		attribute.Int64("inspection.latency_ms", time.Since(start).Milliseconds()),
	)

	return domain.LeafReport(ci.Name(), map[string]any{
		"source":     src.Name,
		"complexity": complexity,
		"threshold":  ci.config.Threshold,
		"exceeded":   exceeded,
	}), nil
}

// CyclomaticComplexity returns the decision-point count of a C-family
// source plus one.
func CyclomaticComplexity(source string) int {
	code := stripCommentsAndLiterals(source)
	decisions := strings.Count(code, "&&") + strings.Count(code, "||") + strings.Count(code, "?")

	for _, word := range strings.FieldsFunc(code, func(r rune) bool { return !isIdentRune(r) }) {
		if _, ok := decisionKeywords[word]; ok {
			decisions++
		}
	}
	return decisions + 1
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// stripCommentsAndLiterals blanks out comments and string and character
// literals, keeping newlines so line structure is preserved.
func stripCommentsAndLiterals(src string) string {
	const (
		code = iota
		lineComment
		blockComment
		stringLit
		charLit
	)

	var b strings.Builder
	b.Grow(len(src))
	state := code
	for i := 0; i < len(src); i++ {
		c := src[i]
		var next byte
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch state {
		case code:
			switch {
			case c == '/' && next == '/':
				state = lineComment
				i++
				b.WriteString("  ")
			case c == '/' && next == '*':
				state = blockComment
				i++
				b.WriteString("  ")
			case c == '"':
				state = stringLit
				b.WriteByte(' ')
			case c == '\'':
				state = charLit
				b.WriteByte(' ')
			default:
				b.WriteByte(c)
			}
		case lineComment:
			if c == '\n' {
				state = code
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		case blockComment:
			if c == '*' && next == '/' {
				state = code
				i++
				b.WriteString("  ")
			} else if c == '\n' {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		case stringLit, charLit:
			quote := byte('"')
			if state == charLit {
				quote = '\''
			}
			switch {
			case c == '\\' && next != 0:
				i++
				b.WriteString("  ")
			case c == quote:
				state = code
				b.WriteByte(' ')
			case c == '\n':
				state = code
				b.WriteByte('\n')
			default:
				b.WriteByte(' ')
			}
		}
	}
	return b.String()
}
