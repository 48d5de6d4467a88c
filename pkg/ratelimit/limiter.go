package ratelimit

import (
	"context"
)

// Limiter tracks windowed request counters per (subject, category) pair.
// Each category gets an independent window: exhausting one never affects
// another.
type Limiter struct {
	store      Store
	def        Config
	categories map[string]Config
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithCategory overrides the default limit for one operation category.
func WithCategory(category string, cfg Config) Option {
	return func(l *Limiter) {
		l.categories[category] = cfg
	}
}

// New creates a Limiter with the given default category config.
func New(store Store, def Config, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if def.Limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if def.Window <= 0 {
		return nil, ErrInvalidWindow
	}

	l := &Limiter{
		store:      store,
		def:        def,
		categories: make(map[string]Config),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check counts one request for the subject in the given category and reports
// whether it is allowed. The store guarantees check-and-increment atomicity,
// so with limit=1 exactly one of N concurrent calls is allowed.
func (l *Limiter) Check(ctx context.Context, subjectID, category string) (*Result, error) {
	if subjectID == "" || category == "" {
		return nil, ErrKeyRequired
	}

	cfg, ok := l.categories[category]
	if !ok {
		cfg = l.def
	}

	count, resetIn, allowed, err := l.store.Take(ctx, subjectID+":"+category, cfg.Limit, cfg.Window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     cfg.Limit,
		Remaining: max(0, cfg.Limit-int(count)),
		ResetIn:   resetIn,
	}, nil
}
