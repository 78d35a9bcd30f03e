package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Objective names accepted by configuration files
	ObjectiveNames = []string{"modularity", "linearity"}

	// Seed strategy names accepted by configuration files
	SeedNames = []string{"none", "label_propagation"}
)

func init() {
	validate = validator.New()
	// "finite" rejects NaN and infinities on float fields
	_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			v := f.Float()
			return !math.IsNaN(v) && !math.IsInf(v, 0)
		default:
			return true
		}
	})
}

// Struct validates v using its `validate` struct tags
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "finite":
			return fmt.Errorf("%s: must be finite", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
