package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/judgegirl/verdict/internal/ports"
)

// Rounding modes applied when a question's points are scaled by a grade.
const (
	RoundFloor = "floor"
	RoundHalf  = "round"
	RoundCeil  = "ceil"
)

// Built-in inspector names. InspectionConfig.Enabled may also name
// inspectors added through InspectorRegistry.Register; names are checked
// against the registry when the pipeline is built.
const (
	InspectorCyclomaticComplexity = "cyclomatic_complexity"
	InspectorSimilarity           = "similarity"
)

// EngineConfig is the root configuration of the verdict engine.
// It is loaded from YAML and validated before use.
type EngineConfig struct {
	// Version is the configuration schema version (X.Y.Z).
	Version string `yaml:"version" validate:"required,semver"`
	// Scoring controls how verdict grades become exam scores.
	Scoring ScoringConfig `yaml:"scoring" validate:"required"`
	// Ranking controls leaderboard computation.
	Ranking RankingConfig `yaml:"ranking" validate:"required"`
	// Inspection controls the code-quality stages run after judging.
	Inspection InspectionConfig `yaml:"inspection"`
}

// ScoringConfig maps a verdict's total grade onto a question's points.
type ScoringConfig struct {
	// FullGrade is the total grade that earns a question's full points.
	FullGrade int `yaml:"full_grade" validate:"required,min=1"`
	// Rounding selects how fractional scores are rounded.
	Rounding string `yaml:"rounding" validate:"required,oneof=floor round ceil"`
}

// RankingConfig tunes leaderboard computation.
type RankingConfig struct {
	// MaxConcurrency bounds the number of students ranked in parallel.
	MaxConcurrency int `yaml:"max_concurrency" validate:"required,min=1,max=256"`
}

// InspectionConfig configures the code-quality inspectors.
type InspectionConfig struct {
	// ComplexityThreshold is the cyclomatic complexity above which a
	// submission is flagged.
	ComplexityThreshold int `yaml:"complexity_threshold" validate:"omitempty,min=1,max=1000"`
	// SimilarityThreshold is the similarity ratio at or above which a
	// submission is flagged.
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"omitempty,min=0,max=1"`
	// Enabled lists the inspectors to run, in order, by registry name.
	Enabled []string `yaml:"enabled" validate:"max=8,dive,required,max=64"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Version: "1.0.0",
		Scoring: ScoringConfig{
			FullGrade: 100,
			Rounding:  RoundFloor,
		},
		Ranking: RankingConfig{
			MaxConcurrency: 8,
		},
		Inspection: InspectionConfig{
			ComplexityThreshold: 10,
			SimilarityThreshold: 0.9,
		},
	}
}

// LoadConfig reads and validates an engine configuration file.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.NewConfigError(path, ports.ErrConfigNotFound)
		}
		return nil, ports.NewConfigError(path, err)
	}
	return LoadConfigFromReader(bytes.NewReader(data))
}

// LoadConfigFromReader decodes and validates an engine configuration.
func LoadConfigFromReader(r io.Reader) (*EngineConfig, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ports.NewConfigError("yaml", fmt.Errorf("failed to parse YAML: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and cross-field rules.
func (c *EngineConfig) Validate() error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return ports.NewConfigError("engine", fmt.Errorf("%w: %w", ports.ErrInvalidConfig,
			describeValidationErrors("EngineConfig", err)))
	}

	seen := make(map[string]struct{}, len(c.Inspection.Enabled))
	for _, name := range c.Inspection.Enabled {
		if _, dup := seen[name]; dup {
			return ports.NewConfigError("inspection.enabled",
				fmt.Errorf("%w: inspector %q listed twice", ports.ErrInvalidConfig, name))
		}
		seen[name] = struct{}{}

		switch name {
		case InspectorCyclomaticComplexity:
			if c.Inspection.ComplexityThreshold == 0 {
				return ports.NewConfigError("inspection.complexity_threshold",
					fmt.Errorf("%w: required when %s is enabled", ports.ErrInvalidConfig, name))
			}
		case InspectorSimilarity:
			if c.Inspection.SimilarityThreshold == 0 {
				return ports.NewConfigError("inspection.similarity_threshold",
					fmt.Errorf("%w: required when %s is enabled", ports.ErrInvalidConfig, name))
			}
		}
	}
	return nil
}
