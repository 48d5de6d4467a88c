package pipeline

import (
	"fmt"
	"time"
)

// The pipeline's closed failure taxonomy. Every stage and terminal handler
// reports failures through these types (or validator.ValidationErrors); the
// translator is the only place they become client-facing text.

// AuthError signals a missing, malformed or unverifiable credential.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// StatusError signals that the account's status blocks the operation.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return "account status blocks this operation: " + e.Status
}

// RateLimitError signals an exhausted window for a sensitive category.
type RateLimitError struct {
	Category   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Category, e.RetryAfter)
}

// CastError signals that the persistence layer rejected a value's shape,
// e.g. a malformed object id. The offending value is kept for diagnostics
// only and never reaches the client.
type CastError struct {
	Value string
}

func (e *CastError) Error() string {
	return "invalid data format: " + e.Value
}
