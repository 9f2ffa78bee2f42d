package ports

import (
	"errors"
	"fmt"
)

// Common infrastructure errors raised around the verdict engine.
var (
	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrInvalidConfig indicates that configuration failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates an input document in an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInspectionFailed indicates that a code-quality stage could not
	// produce a report.
	ErrInspectionFailed = errors.New("inspection failed")
)

// InspectionError represents a failure of a code-quality inspector.
type InspectionError struct {
	// Inspector is the name of the inspector that failed.
	Inspector string

	// Source is the file being inspected.
	Source string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for InspectionError.
func (e *InspectionError) Error() string {
	return fmt.Sprintf("inspection error: inspector=%s, source=%s, err=%v", e.Inspector, e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *InspectionError) Unwrap() error { return e.Err }

// Is makes every InspectionError match ErrInspectionFailed.
func (e *InspectionError) Is(target error) bool { return target == ErrInspectionFailed }

// NewInspectionError creates a new InspectionError with the given details.
func NewInspectionError(inspector, source string, err error) *InspectionError {
	return &InspectionError{
		Inspector: inspector,
		Source:    source,
		Err:       err,
	}
}

// MetricsError represents an error from metrics collection operations.
type MetricsError struct {
	// Metric is the name of the metric that was being collected when the
	// error occurred.
	Metric string

	// Operation is the name of the metrics operation that failed.
	Operation string

	// Err is the underlying error that caused the metrics operation to fail.
	Err error
}

// Error implements the error interface for MetricsError.
func (e *MetricsError) Error() string {
	return fmt.Sprintf("metrics error: operation=%s, metric=%s, err=%v", e.Operation, e.Metric, e.Err)
}

// Unwrap returns the underlying error.
func (e *MetricsError) Unwrap() error { return e.Err }

// NewMetricsError creates a new MetricsError with the given details.
func NewMetricsError(metric, operation string, err error) *MetricsError {
	return &MetricsError{
		Metric:    metric,
		Operation: operation,
		Err:       err,
	}
}

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}
