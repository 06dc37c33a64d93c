package validator

import (
	"fmt"
	"strings"

	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
			Key:     "validation.required",
			Params:  map[string]any{"field": field},
		},
	}
}

func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Check: func() bool {
			return len(value) > 0
		},
		Error: ValidationError{
			Field:   field,
			Message: "at least one value is required",
			Key:     "validation.required",
			Params:  map[string]any{"field": field},
		},
	}
}

// ValidEmail validates mailbox syntax only. An empty value fails.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return sanitizer.ValidEmail(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid email address: %q", value),
			Key:     "validation.email",
			Params:  map[string]any{"field": field, "value": value},
		},
	}
}

// ValidEmails returns one ValidEmail rule per address, with the field name
// indexed as field[i].
func ValidEmails(field string, values []string) []Rule {
	rules := make([]Rule, 0, len(values))
	for i, v := range values {
		rules = append(rules, ValidEmail(fmt.Sprintf("%s[%d]", field, i), v))
	}
	return rules
}

// ExactlyOne validates that exactly one of two mutually exclusive inputs is set.
func ExactlyOne(fieldA string, hasA bool, fieldB string, hasB bool) Rule {
	return Rule{
		Check: func() bool {
			return hasA != hasB
		},
		Error: ValidationError{
			Field:   fieldA,
			Message: fmt.Sprintf("exactly one of %s or %s must be provided", fieldA, fieldB),
			Key:     "validation.exactly_one",
			Params:  map[string]any{"a": fieldA, "b": fieldB},
		},
	}
}

// Forbidden fails when a value is present without its companion field.
func Forbidden(field string, present bool, reason string) Rule {
	return Rule{
		Check: func() bool {
			return !present
		},
		Error: ValidationError{
			Field:   field,
			Message: reason,
			Key:     "validation.forbidden",
			Params:  map[string]any{"field": field},
		},
	}
}
