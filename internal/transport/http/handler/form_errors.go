package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// fieldErrors converts binding failures into per-field messages for form
// re-rendering. Non-validator errors map to a single generic entry.
func fieldErrors(err error) map[string]string {
	msgs := make(map[string]string)

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		msgs["form"] = "invalid form input"
		return msgs
	}

	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		msgs[field] = fieldError(field, fe)
	}
	return msgs
}

func fieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "eqfield":
		return "Passwords do not match"
	default:
		return fmt.Sprintf("Failed validation (%s)", fe.Tag())
	}
}
