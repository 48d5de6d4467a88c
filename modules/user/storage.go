package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Storage is the persistence boundary for accounts. Implementations surface
// their native duplicate-key and cast failures unchanged; the pipeline's
// translator maps them.
type Storage interface {
	// Account fetches the account by its subject id.
	Account(ctx context.Context, id string) (*Account, error)

	// Status returns just the account's status.
	Status(ctx context.Context, id string) (string, error)

	// UpdateProfile applies the given field changes and returns the
	// updated account.
	UpdateProfile(ctx context.Context, id string, fields map[string]string) (*Account, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdatePreferences merges the given preference changes and returns
	// the updated account.
	UpdatePreferences(ctx context.Context, id string, fields map[string]string) (*Account, error)

	// SetStatus transitions the account to the given status, recording
	// an optional reason.
	SetStatus(ctx context.Context, id, status, reason string) error

	// SetVerificationCode stores a pending email verification code.
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) error

	// ClearVerificationCode marks the email verified and drops the code.
	ClearVerificationCode(ctx context.Context, id string) error
}

// ActivityReader reads back the account's activity records for summaries.
// The pipeline itself only appends; read access is a reporting concern.
type ActivityReader interface {
	// CountByAction returns per-action record counts since the cutoff.
	CountByAction(ctx context.Context, subjectID string, since time.Time) (map[string]int64, error)

	// Total returns the total record count since the cutoff.
	Total(ctx context.Context, subjectID string, since time.Time) (int64, error)
}

// Mailer delivers account emails. Best effort from the handler's point of
// view only where noted; verification sends are required to succeed.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// Exporter queues a data-export request for offline fulfillment.
type Exporter interface {
	Enqueue(ctx context.Context, subjectID string) (requestID string, err error)
}
