package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process counter backend. Counters reset lazily at
// window boundaries and expired entries are evicted by a background loop
// after a grace period.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	cleanupInterval time.Duration
	grace           time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once

	// now is swappable for tests.
	now func() time.Time
}

type entry struct {
	count   int64
	resetAt time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired entries are evicted.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithGrace sets how long an expired entry survives before eviction.
func WithGrace(grace time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if grace >= 0 {
			s.grace = grace
		}
	}
}

// WithClock replaces the time source, for tests with a fake clock.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an in-memory store with automatic cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries:         make(map[string]*entry),
		cleanupInterval: time.Minute,
		grace:           time.Minute,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// Take implements Store. The whole check-compare-increment runs under one
// lock so concurrent takes for the same key serialize.
func (s *MemoryStore) Take(ctx context.Context, key string, limit int, window time.Duration) (int64, time.Duration, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, exists := s.entries[key]

	if !exists || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return e.count, window, true, nil
	}

	if e.count < int64(limit) {
		e.count++
		return e.count, e.resetAt.Sub(now), true, nil
	}

	return e.count, e.resetAt.Sub(now), false, nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.grace)
	for key, e := range s.entries {
		if e.resetAt.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe for repeated calls.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
