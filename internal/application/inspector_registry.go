package application

import (
	"fmt"
	"slices"
	"sync"

	"github.com/judgegirl/verdict/infrastructure/inspection"
	"github.com/judgegirl/verdict/internal/ports"
)

// InspectorFactory creates an inspector from the inspection configuration
// and the reference sources submissions are compared against.
type InspectorFactory func(cfg InspectionConfig, references []ports.SourceFile) (ports.Inspector, error)

// InspectorRegistry maps inspector names to factories.
// It supports runtime registration of additional inspectors and is safe
// for concurrent use.
type InspectorRegistry struct {
	mu        sync.RWMutex
	factories map[string]InspectorFactory
}

// NewInspectorRegistry creates a registry with the built-in inspectors
// pre-registered.
func NewInspectorRegistry() *InspectorRegistry {
	r := &InspectorRegistry{factories: make(map[string]InspectorFactory)}
	r.registerBuiltinFactories()
	return r
}

func (r *InspectorRegistry) registerBuiltinFactories() {
	r.factories[InspectorCyclomaticComplexity] = func(cfg InspectionConfig, _ []ports.SourceFile) (ports.Inspector, error) {
		return inspection.NewComplexityInspector(inspection.ComplexityConfig{Threshold: cfg.ComplexityThreshold})
	}
	r.factories[InspectorSimilarity] = func(cfg InspectionConfig, refs []ports.SourceFile) (ports.Inspector, error) {
		return inspection.NewSimilarityInspector(inspection.SimilarityConfig{Threshold: cfg.SimilarityThreshold}, refs)
	}
}

// Register adds or replaces the factory for name.
func (r *InspectorRegistry) Register(name string, factory InspectorFactory) error {
	if name == "" {
		return fmt.Errorf("inspector name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory function cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}

// Create builds the inspector registered under name.
func (r *InspectorRegistry) Create(name string, cfg InspectionConfig, references []ports.SourceFile) (ports.Inspector, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported inspector: %s", name)
	}
	inspector, err := factory(cfg, references)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspector %s: %w", name, err)
	}
	return inspector, nil
}

// Supported returns the registered inspector names in sorted order.
func (r *InspectorRegistry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateConfig checks that every enabled inspector is registered.
func (r *InspectorRegistry) ValidateConfig(cfg InspectionConfig) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range cfg.Enabled {
		if _, ok := r.factories[name]; !ok {
			return ports.NewConfigError("inspection.enabled",
				fmt.Errorf("%w: unknown inspector %q", ports.ErrInvalidConfig, name))
		}
	}
	return nil
}

// Pipeline builds the enabled inspectors, in configuration order, grouped
// under a single code-quality inspection. It returns nil when no
// inspector is enabled.
func (r *InspectorRegistry) Pipeline(cfg InspectionConfig, references []ports.SourceFile) (ports.Inspector, error) {
	if len(cfg.Enabled) == 0 {
		return nil, nil
	}
	if err := r.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	stages := make([]ports.Inspector, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		inspector, err := r.Create(name, cfg, references)
		if err != nil {
			return nil, err
		}
		stages = append(stages, inspector)
	}
	return inspection.NewCodeQualityInspection(stages...)
}
