// Package ratelimit implements windowed request counting keyed by
// (subject, category).
//
// A Limiter opens a fixed-duration window on the first request for a key and
// counts requests against it. Once the count reaches the category's limit,
// further requests are denied with the time remaining until the window
// resets; a denied request never advances the counter. Windows reset lazily
// on the next request after expiry, never mid-window.
//
// Counters live behind the Store interface. MemoryStore serializes the
// check-and-increment under a mutex for single-process use; RedisStore runs
// it as a Lua script for deployments that need a shared counter.
//
//	store := ratelimit.NewMemoryStore()
//	limiter, err := ratelimit.New(store, ratelimit.Config{Limit: 5, Window: time.Hour})
//	res, err := limiter.Check(ctx, userID, "password_change")
//	if !res.Allowed {
//		// res.RetryAfter() until the window resets
//	}
package ratelimit
