package ratelimit_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampagehq/userapi/pkg/ratelimit"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T, clock *fakeClock) *ratelimit.MemoryStore {
	t.Helper()

	store := ratelimit.NewMemoryStore(
		ratelimit.WithClock(clock.Now),
		ratelimit.WithCleanupInterval(time.Hour),
	)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLimiterWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, err := ratelimit.New(newTestStore(t, clock), ratelimit.Config{Limit: 5, Window: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("five calls in the window all allow, the sixth denies", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			res, err := limiter.Check(ctx, "user-1", "password_change")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "call %d", i+1)
		}

		res, err := limiter.Check(ctx, "user-1", "password_change")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Positive(t, res.RetryAfter())
	})

	t.Run("denied calls never grow the counter", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			res, err := limiter.Check(ctx, "user-1", "password_change")
			require.NoError(t, err)
			require.False(t, res.Allowed)
		}

		// One window later a single call must be allowed again; a counter
		// that grew past the limit would still deny here.
		clock.Advance(time.Minute + time.Second)
		res, err := limiter.Check(ctx, "user-1", "password_change")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("window resets lazily after expiry", func(t *testing.T) {
		clock.Advance(2 * time.Minute)

		res, err := limiter.Check(ctx, "user-1", "password_change")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 4, res.Remaining)
	})
}

func TestLimiterRetryHintTracksStoreClock(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, err := ratelimit.New(newTestStore(t, clock), ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()

	res, err := limiter.Check(ctx, "user-1", "profile_update")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	clock.Advance(40 * time.Second)

	res, err = limiter.Check(ctx, "user-1", "profile_update")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// The hint is measured with the store's clock, so it is exact even
	// with that clock pinned far from wall time.
	assert.Equal(t, 20*time.Second, res.ResetIn)
	assert.Equal(t, 20*time.Second, res.RetryAfter())
}

func TestLimiterCategoryIsolation(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, err := ratelimit.New(newTestStore(t, clock), ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	ctx := context.Background()

	res, err := limiter.Check(ctx, "user-1", "data_export")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = limiter.Check(ctx, "user-1", "data_export")
	require.NoError(t, err)
	require.False(t, res.Allowed, "export window exhausted")

	res, err = limiter.Check(ctx, "user-1", "account_deletion")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "other categories are unaffected")

	res, err = limiter.Check(ctx, "user-2", "data_export")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "other subjects are unaffected")
}

func TestLimiterPerCategoryConfig(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, err := ratelimit.New(newTestStore(t, clock),
		ratelimit.Config{Limit: 5, Window: time.Hour},
		ratelimit.WithCategory("data_export", ratelimit.Config{Limit: 1, Window: 24 * time.Hour}),
	)
	require.NoError(t, err)

	ctx := context.Background()

	res, err := limiter.Check(ctx, "user-1", "data_export")
	require.NoError(t, err)
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.Limit)

	res, err = limiter.Check(ctx, "user-1", "data_export")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = limiter.Check(ctx, "user-1", "password_change")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)
}

func TestLimiterConcurrency(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, err := ratelimit.New(newTestStore(t, clock), ratelimit.Config{Limit: 1, Window: time.Minute})
	require.NoError(t, err)

	const n = 64
	var allowed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Check(context.Background(), "user-1", "account_deletion")
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), allowed.Load(), "exactly one of %d concurrent calls may pass with limit=1", n)
}

func TestLimiterValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newFakeClock())

	_, err := ratelimit.New(nil, ratelimit.Config{Limit: 5, Window: time.Minute})
	assert.ErrorIs(t, err, ratelimit.ErrStoreRequired)

	_, err = ratelimit.New(store, ratelimit.Config{Limit: 0, Window: time.Minute})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidLimit)

	_, err = ratelimit.New(store, ratelimit.Config{Limit: 5})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidWindow)

	limiter, err := ratelimit.New(store, ratelimit.Config{Limit: 5, Window: time.Minute})
	require.NoError(t, err)

	_, err = limiter.Check(context.Background(), "", "password_change")
	assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)

	_, err = limiter.Check(context.Background(), "user-1", "")
	assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
}

func TestMemoryStoreCanceledContext(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, newFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, _, err := store.Take(ctx, "k", 5, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
