package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// messageFor renders a human-readable message for a violated rule. Messages
// are shown inline next to the field, so they name the constraint, not the
// mechanism.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "required_if":
		return "this field is required for the selected option"
	case "required_with":
		return fmt.Sprintf("required when %s is provided", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}

		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}

		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return fmt.Sprintf("must be a date in the form %s", fe.Param())
	case "pincode":
		return "must be a valid 6-digit postal code"
	case "inphone":
		return "must be a valid 10-digit phone number"
	case "pan":
		return "must be a valid PAN (e.g. ABCDE1234F)"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
