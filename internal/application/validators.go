package application

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/judgegirl/verdict/internal/domain"
)

// statusAliases maps the long spellings used by some grading pipelines to
// their short status codes.
var statusAliases = map[string]domain.OutcomeStatus{
	"ACCEPTED":              domain.Accepted,
	"WRONG_ANSWER":          domain.WrongAnswer,
	"TIME_LIMIT_EXCEEDED":   domain.TimeLimitExceeded,
	"MEMORY_LIMIT_EXCEEDED": domain.MemoryLimitExceeded,
	"OUTPUT_LIMIT_EXCEEDED": domain.OutputLimitExceeded,
	"RUNTIME_ERROR":         domain.RuntimeError,
	"SYSTEM_ERROR":          domain.SystemError,
	"UNEVALUATED":           domain.Unevaluated,
}

var upper = cases.Upper(language.Und)

// ParseOutcomeStatus parses a status code case-insensitively, ignoring
// surrounding whitespace. Both short codes ("tle") and long names
// ("time_limit_exceeded") are accepted.
// It returns domain.ErrUnknownStatus for anything else, including "CE":
// compile errors are reported at the verdict level.
func ParseOutcomeStatus(s string) (domain.OutcomeStatus, error) {
	code := upper.String(strings.TrimSpace(s))
	if status := domain.OutcomeStatus(code); status.IsValid() {
		return status, nil
	}
	if status, ok := statusAliases[code]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, s)
}

// registerCustomValidators installs the validation tags used by the
// engine configuration and by judgement batches.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateSemver); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	if err := v.RegisterValidation("outcomestatus", validateOutcomeStatus); err != nil {
		return fmt.Errorf("failed to register outcomestatus validator: %w", err)
	}
	return nil
}

// newValidator returns a validator with the engine's custom tags.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := registerCustomValidators(v); err != nil {
		return nil, err
	}
	return v, nil
}

// validateSemver validates that a string follows semantic versioning
// format (X.Y.Z where X, Y, Z are non-negative integers).
func validateSemver(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var major, minor, patch int
	n, err := fmt.Sscanf(value, "%d.%d.%d", &major, &minor, &patch)
	return err == nil && n == 3 && major >= 0 && minor >= 0 && patch >= 0
}

// validateOutcomeStatus accepts any spelling ParseOutcomeStatus accepts.
func validateOutcomeStatus(fl validator.FieldLevel) bool {
	_, err := ParseOutcomeStatus(fl.Field().String())
	return err == nil
}

// describeValidationErrors flattens validator errors into one message per
// failed field.
func describeValidationErrors(entity string, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	ve := domain.NewValidationError(entity)
	for _, fe := range verrs {
		if fe.Param() != "" {
			ve.AddError(fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			continue
		}
		ve.AddError(fmt.Sprintf("%s failed %s (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return ve
}
