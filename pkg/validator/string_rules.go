package validator

import "fmt"

// MinLen requires the value to be at least min characters long (inclusive).
func MinLen(min int) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return len([]rune(value)) >= min
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be at least %d characters long", min),
			},
		}
	}
}

// MaxLen requires the value to be at most max characters long (inclusive).
func MaxLen(max int) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return len([]rune(value)) <= max
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be at most %d characters long", max),
			},
		}
	}
}

// Len requires the value to be exactly n characters long.
func Len(n int) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return len([]rune(value)) == n
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be exactly %d characters long", n),
			},
		}
	}
}

// LenBetween requires the value length to fall within [min, max].
func LenBetween(min, max int) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				n := len([]rune(value))
				return n >= min && n <= max
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be between %d and %d characters long", min, max),
			},
		}
	}
}

// Literal requires an exact, case-sensitive match of the expected string.
func Literal(expected string) Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return value == expected
			},
			Error: FieldError{
				Field:   field,
				Message: fmt.Sprintf("must be exactly %q", expected),
			},
		}
	}
}
