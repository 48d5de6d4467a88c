package user

import (
	"regexp"

	"github.com/rampagehq/userapi/pkg/sanitizer"
	"github.com/rampagehq/userapi/pkg/validator"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

// deletionPhrase is the exact confirmation an account deletion must carry.
const deletionPhrase = "DELETE_MY_ACCOUNT"

func profileUpdateRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "profileUpdate",
		Fields: []validator.FieldRule{
			{
				Field: "name",
				Constraints: []validator.Constraint{
					validator.MinLen(2),
					validator.MaxLen(50),
					validator.Matches(nameRegex, "letters, spaces, hyphens and apostrophes"),
				},
			},
			{
				Field:       "email",
				Constraints: []validator.Constraint{validator.Email()},
				Normalize:   sanitizer.NormalizeEmail,
			},
			{
				Field:       "phoneNumber",
				Constraints: []validator.Constraint{validator.Phone()},
			},
			{
				Field:       "dateOfBirth",
				Constraints: []validator.Constraint{validator.Date()},
			},
			{
				Field:       "bio",
				Constraints: []validator.Constraint{validator.MaxLen(500)},
			},
			{
				Field:       "avatar",
				Constraints: []validator.Constraint{validator.URL()},
			},
		},
	}
}

func passwordChangeRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "passwordChange",
		Fields: []validator.FieldRule{
			{
				Field:    "currentPassword",
				Required: true,
				Message:  "current password is required",
			},
			{
				Field:    "newPassword",
				Required: true,
				Constraints: []validator.Constraint{
					validator.MinLen(8),
					validator.StrongPassword(),
				},
			},
			{
				Field:    "confirmPassword",
				Required: true,
			},
		},
		CrossField: []validator.CrossFieldCheck{
			validator.FieldsEqual("confirmPassword", "newPassword", "must match the new password"),
		},
	}
}

func preferencesRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "preferences",
		Fields: []validator.FieldRule{
			{
				Field:       "currency",
				Constraints: []validator.Constraint{validator.Len(3)},
			},
			{
				Field:       "language",
				Constraints: []validator.Constraint{validator.LenBetween(2, 5)},
			},
			{
				Field:       "timezone",
				Constraints: []validator.Constraint{validator.MaxLen(100)},
			},
			{
				Field:       "theme",
				Constraints: []validator.Constraint{validator.OneOf("light", "dark", "auto", "high-contrast")},
			},
		},
	}
}

func accountDeletionRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "accountDeletion",
		Fields: []validator.FieldRule{
			{
				Field:    "password",
				Required: true,
			},
			{
				Field:       "confirmDeletion",
				Required:    true,
				Constraints: []validator.Constraint{validator.Literal(deletionPhrase)},
			},
			{
				Field:       "reason",
				Constraints: []validator.Constraint{validator.MaxLen(500)},
			},
		},
	}
}

func verifyEmailRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "verifyEmail",
		Fields: []validator.FieldRule{
			{
				Field:       "code",
				Required:    true,
				Constraints: []validator.Constraint{validator.Len(6)},
			},
		},
	}
}

func deactivateRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "deactivate",
		Fields: []validator.FieldRule{
			{
				Field:    "password",
				Required: true,
			},
			{
				Field:       "reason",
				Constraints: []validator.Constraint{validator.MaxLen(500)},
			},
		},
	}
}

func timeframeRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "timeframe",
		Fields: []validator.FieldRule{
			{
				Field:       "timeframe",
				Constraints: []validator.Constraint{validator.OneOf("week", "month", "year")},
			},
		},
	}
}

func statsPeriodRules() *validator.RuleSet {
	return &validator.RuleSet{
		Name: "statsPeriod",
		Fields: []validator.FieldRule{
			{
				Field:       "period",
				Constraints: []validator.Constraint{validator.OneOf("7d", "30d", "90d", "1y")},
			},
		},
	}
}
