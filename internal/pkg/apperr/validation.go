package apperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct's `validate` tags and returns a ValidationFailed
// error keyed by the json field names.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Internal("", err)
	}
	return Validation(FormatValidationErrors(validationErrs))
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(validationErrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		field := toSnake(e.Field())
		switch e.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = "Invalid email format"
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, e.Param())
		case "gtfield":
			fields[field] = fmt.Sprintf("%s must be after %s", field, toSnake(e.Param()))
		case "url":
			fields[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return fields
}

// toSnake turns Go field names like StartTime into start_time.
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateVar checks a single value against a validator tag.
func ValidateVar(v interface{}, tag string) error {
	return validate.Var(v, tag)
}
