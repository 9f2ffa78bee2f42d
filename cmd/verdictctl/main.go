// Command verdictctl builds verdicts for a judgement batch and prints a
// summary line per submission followed by the leaderboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/judgegirl/verdict/infrastructure/middleware"
	"github.com/judgegirl/verdict/internal/application"
	"github.com/judgegirl/verdict/internal/domain"
	"github.com/judgegirl/verdict/internal/ports"
)

func main() {
	var (
		configPath = flag.String("config", "", "Engine configuration file (defaults are used when empty)")
		batchPath  = flag.String("batch", "", "Judgement batch file")
		format     = flag.String("format", "", "Batch format: yaml or json (inferred from the extension when empty)")
	)
	flag.Parse()

	if *batchPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	metrics, err := middleware.NewPrometheusMetrics(nil)
	if err != nil {
		log.Fatalf("verdictctl: %v", err)
	}
	observer := middleware.NewOTelVerdictObserver(metrics, "verdictctl")
	if err := run(context.Background(), *configPath, *batchPath, *format, observer, os.Stdout); err != nil {
		log.Fatalf("verdictctl: %v", err)
	}
}

func run(
	ctx context.Context,
	configPath, batchPath, format string,
	observer ports.VerdictObserver,
	out io.Writer,
) error {
	cfg := application.DefaultConfig()
	if configPath != "" {
		loaded, err := application.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(batchPath), ".")
	}
	f, err := os.Open(filepath.Clean(batchPath))
	if err != nil {
		return fmt.Errorf("failed to open batch: %w", err)
	}
	defer f.Close()

	batch, err := application.DecodeBatch(f, format)
	if err != nil {
		return err
	}

	pipeline, err := application.NewInspectorRegistry().Pipeline(cfg.Inspection, batch.ReferenceFiles())
	if err != nil {
		return err
	}
	var inspectors []ports.Inspector
	if pipeline != nil {
		inspectors = append(inspectors, pipeline)
	}

	subs, err := application.NewVerdictBuilder(observer, inspectors...).Build(ctx, batch)
	if err != nil {
		log.Printf("some submissions failed: %v", err)
	}
	for _, s := range subs {
		printSubmission(out, s)
	}

	entries, err := application.NewRanker(cfg, observer).
		BuildLeaderboard(ctx, batch.Questions(cfg.Scoring.FullGrade), subs)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "rank student score accepted")
	for _, e := range entries {
		fmt.Fprintf(out, "%d %d %d %d\n", e.Rank, e.StudentID, e.TotalScore, e.AcceptedQuestions)
	}
	return nil
}

// printSubmission writes "id summary grade max_runtime", plus the
// inspection reports that flagged the submission.
func printSubmission(out io.Writer, s application.Submission) {
	v := s.Verdict
	if v.IsCompileError() {
		fmt.Fprintf(out, "%s CE 0 -\n", s.ID)
		return
	}
	summary, _ := v.SummaryStatus()
	runtime, _ := v.MaximumRuntime()
	fmt.Fprintf(out, "%s %s %d %dms\n", s.ID, summary, v.TotalGrade(), runtime)

	err := v.Report().Walk(func(_ int, r domain.Report) error {
		payload := r.Payload()
		if payload["exceeded"] == true || payload["flagged"] == true {
			_, err := fmt.Fprintf(out, "  %s: %s %v\n", r.Name(), payload["source"], payload)
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("failed to print reports of %s: %v", s.ID, err)
	}
}
