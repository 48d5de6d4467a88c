package validator

import (
	"fmt"
	"regexp"
)

// Matches validates the value against a compiled pattern. Patterns are
// compiled once by the caller and shared across requests.
func Matches(pattern *regexp.Regexp, description string) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return pattern.MatchString(value)
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must contain only %s", description),
			},
		}
	}
}

// OneOf validates the value against a fixed allowed set, case-sensitive.
func OneOf(allowed ...string) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				for _, a := range allowed {
					if value == a {
						return true
					}
				}
				return false
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be one of: %s", joinAllowed(allowed)),
			},
		}
	}
}

func joinAllowed(allowed []string) string {
	out := ""
	for i, a := range allowed {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}
