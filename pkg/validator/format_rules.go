package validator

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	// International format with optional country code, E.164 style.
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// Email validates the value as an email address using RFC 5322 parsing plus
// the stricter checks typical web forms need (dotted, non-empty domain).
func Email() Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				addr, err := mail.ParseAddress(value)
				if err != nil || addr.Address != value {
					return false
				}

				parts := strings.Split(addr.Address, "@")
				if len(parts) != 2 || parts[0] == "" {
					return false
				}

				domain := parts[1]
				if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
					return false
				}
				for _, part := range strings.Split(domain, ".") {
					if part == "" {
						return false
					}
				}
				return true
			},
			Error: FieldError{
				Field:   field,
				Message: "must be a valid email address",
			},
		}
	}
}

// Phone validates the value as an international phone number. Format check
// only, no normalization.
func Phone() Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				return phoneRegex.MatchString(strings.ReplaceAll(value, " ", ""))
			},
			Error: FieldError{
				Field:   field,
				Message: "must be a valid phone number",
			},
		}
	}
}

// URL validates the value as an absolute URL with scheme and host.
func URL() Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				u, err := url.ParseRequestURI(value)
				if err != nil {
					return false
				}
				return u.Scheme != "" && u.Host != ""
			},
			Error: FieldError{
				Field:   field,
				Message: "must be a valid URL",
			},
		}
	}
}

// Date validates the value as an ISO-8601 calendar date (YYYY-MM-DD).
func Date() Constraint {
	return func(field, value string) Rule {
		return Rule{
			Check: func() bool {
				_, err := time.Parse("2006-01-02", value)
				return err == nil
			},
			Error: FieldError{
				Field:   field,
				Message: "must be a valid date in YYYY-MM-DD format",
			},
		}
	}
}
