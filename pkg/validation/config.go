package validation

import (
	"errors"
	"fmt"
	"math"
)

// ConfigValidator provides a fluent interface for validating optimiser parameters.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// MinInt validates that an int field is at least the minimum value.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d is below minimum %d", cv.name, field, value, min))
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d must be non-negative", cv.name, field, value))
	}
	return cv
}

// Finite validates that a float field is neither NaN nor infinite.
func (cv *ConfigValidator) Finite(field string, value float64) *ConfigValidator {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be finite", cv.name, field, value))
	}
	return cv
}

// PositiveFloat validates that a float field is positive (> 0).
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if !(value > 0) || math.IsInf(value, 1) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be positive and finite", cv.name, field, value))
	}
	return cv
}

// NonNegativeFloat validates that a float field is finite and non-negative (>= 0).
func (cv *ConfigValidator) NonNegativeFloat(field string, value float64) *ConfigValidator {
	if !(value >= 0) || math.IsInf(value, 1) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be non-negative and finite", cv.name, field, value))
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %q must be one of %v", cv.name, field, value, allowed))
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns a combined error if any validations failed. The
// combined error wraps every collected error.
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errors) {
	case 0:
		return nil
	case 1:
		return cv.errors[0]
	default:
		return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
	}
}

// DefaultOr returns the value if it's non-zero, otherwise returns the default.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
