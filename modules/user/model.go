package user

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account is the persisted user account document.
type Account struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	PhoneNumber  string        `bson:"phone_number,omitempty" json:"phoneNumber,omitempty"`
	DateOfBirth  string        `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Bio          string        `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL    string        `bson:"avatar_url,omitempty" json:"avatar,omitempty"`
	Status       string        `bson:"status" json:"status"`
	Preferences  Preferences   `bson:"preferences" json:"preferences"`

	VerificationCode          string    `bson:"verification_code,omitempty" json:"-"`
	VerificationCodeExpiresAt time.Time `bson:"verification_code_expires_at,omitempty" json:"-"`

	DeactivationReason string    `bson:"deactivation_reason,omitempty" json:"-"`
	DeletionReason     string    `bson:"deletion_reason,omitempty" json:"-"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updatedAt"`
}

// Preferences are the account's display and locale settings.
type Preferences struct {
	Currency string `bson:"currency,omitempty" json:"currency,omitempty"`
	Language string `bson:"language,omitempty" json:"language,omitempty"`
	Timezone string `bson:"timezone,omitempty" json:"timezone,omitempty"`
	Theme    string `bson:"theme,omitempty" json:"theme,omitempty"`
}

// Profile is the client-facing projection of an account.
type Profile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	DateOfBirth string      `json:"dateOfBirth,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	AvatarURL   string      `json:"avatar,omitempty"`
	Status      string      `json:"status"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (a *Account) profile() Profile {
	return Profile{
		ID:          a.ID.Hex(),
		Name:        a.Name,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		DateOfBirth: a.DateOfBirth,
		Bio:         a.Bio,
		AvatarURL:   a.AvatarURL,
		Status:      a.Status,
		Preferences: a.Preferences,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
