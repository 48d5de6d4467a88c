package validator

import "regexp"

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[@$!%*?&]`)
)

// StrongPassword requires at least one lowercase letter, one uppercase
// letter, one digit and one of @$!%*?&. Length is enforced separately with
// MinLen so the client sees the more specific message.
func StrongPassword() Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return lowercaseRegex.MatchString(value) &&
					uppercaseRegex.MatchString(value) &&
					digitRegex.MatchString(value) &&
					specialCharRegex.MatchString(value)
			},
			Error: FieldError{
				Field:   field,
				Message: "must contain an uppercase letter, a lowercase letter, a digit and one of @$!%*?&",
			},
		}
	}
}
