package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetIn is the time left until the current window expires, measured
	// by the store's clock at the moment of the take.
	ResetIn time.Duration
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 for an allowed request.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return r.ResetIn
}

// Store is the counter backend. Implementations must make Take atomic: the
// read, limit comparison and increment may not interleave with another Take
// for the same key.
type Store interface {
	// Take counts one request against the key's window, opening a new
	// window when none is active or the active one has expired. A denied
	// take leaves the counter unchanged so it cannot grow past the limit.
	// resetIn is the time left in the window, measured by the store's own
	// clock.
	Take(ctx context.Context, key string, limit int, window time.Duration) (count int64, resetIn time.Duration, allowed bool, err error)
}

// Config holds the limit applied to one category of operations.
type Config struct {
	Limit  int           `env:"LIMIT" envDefault:"5"`
	Window time.Duration `env:"WINDOW" envDefault:"1h"`
}
