package ports

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgegirl/verdict/internal/domain"
)

// lineCountInspector is a minimal Inspector used to check the contract.
type lineCountInspector struct{}

func (lineCountInspector) Name() string { return "line-count" }

func (lineCountInspector) Inspect(ctx context.Context, src SourceFile) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, NewInspectionError("line-count", src.Name, err)
	}
	return domain.LeafReport("line-count", map[string]any{
		"lines": strings.Count(src.Content, "\n") + 1,
	}), nil
}

func TestInspectorContract(t *testing.T) {
	var inspector Inspector = lineCountInspector{}
	src := SourceFile{Name: "main.c", Content: "int main() {\n  return 0;\n}"}

	report, err := inspector.Inspect(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportLeaf, report.Kind())
	assert.Equal(t, inspector.Name(), report.Name())
	assert.Equal(t, 3, report.Payload()["lines"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = inspector.Inspect(ctx, src)
	assert.ErrorIs(t, err, ErrInspectionFailed)
	assert.ErrorIs(t, err, context.Canceled)
}
