// Package inspection provides code-quality stages that implement the
// ports.Inspector interface. Each stage analyzes a submitted source file
// and produces a leaf report that is attached to the submission's verdict.
package inspection

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Report names produced by the built-in inspectors.
const (
	ReportCyclomaticComplexity = "cyclomatic-complexity"
	ReportSimilarity           = "similarity"
	ReportCodeQuality          = "code-quality"
)

// MaxSourceLength bounds the size of a source file accepted by inspectors.
const MaxSourceLength = 1 << 20

// MaxSimilarityRunes bounds the normalized length, in runes, of sources
// compared by SimilarityInspector. levenshtein.ComputeDistance counts in
// uint16, so this must stay below 1<<16.
const MaxSimilarityRunes = 1 << 14

// Common errors returned by inspectors.
var (
	// ErrSourceTooLarge is returned for sources above MaxSourceLength, or
	// above MaxSimilarityRunes once normalized for similarity.
	ErrSourceTooLarge = errors.New("source file too large")

	// ErrNoInspectors is returned when a code-quality inspection has no
	// stages to run.
	ErrNoInspectors = errors.New("no inspectors configured")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()
