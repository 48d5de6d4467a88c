package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Storage persists activity records. Implementations must be safe for
// concurrent use; calls for different requests are independent and no
// cross-request ordering is guaranteed.
type Storage interface {
	Store(ctx context.Context, record Record) error
}

// contextExtractor pulls a string value out of a request context.
type contextExtractor func(context.Context) (string, bool)

// Logger writes best-effort activity records. A storage failure is reported
// to the diagnostics logger and discarded; it never reaches the caller.
type Logger struct {
	storage            Storage
	diag               *slog.Logger
	requestIDExtractor contextExtractor
	ipExtractor        contextExtractor
}

// Option configures a Logger.
type Option func(*Logger)

// WithDiagnostics sets the sink for swallowed storage failures.
func WithDiagnostics(log *slog.Logger) Option {
	return func(l *Logger) {
		if log != nil {
			l.diag = log
		}
	}
}

// WithRequestIDExtractor wires automatic request-id capture from context.
func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Logger) { l.requestIDExtractor = fn }
}

// WithIPExtractor wires automatic client-ip capture from context.
func WithIPExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Logger) { l.ipExtractor = fn }
}

// NewLogger creates an activity logger over the given storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("activity: storage cannot be nil")
	}

	l := &Logger{
		storage: storage,
		diag:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log appends one record for the subject. Fire and forget: errors are
// swallowed after being reported to the diagnostics sink, so a logging
// failure can never alter the pipeline's response.
func (l *Logger) Log(ctx context.Context, subjectID, action string, outcome Outcome, opts ...RecordOption) {
	record := Record{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		Action:    action,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}

	if l.requestIDExtractor != nil {
		if id, ok := l.requestIDExtractor(ctx); ok {
			record.RequestID = id
		}
	}
	if l.ipExtractor != nil {
		if ip, ok := l.ipExtractor(ctx); ok {
			record.IP = ip
		}
	}

	for _, opt := range opts {
		opt(&record)
	}

	if err := l.storage.Store(ctx, record); err != nil {
		l.diag.WarnContext(ctx, "activity record dropped",
			slog.String("action", action),
			slog.String("subject_id", subjectID),
			slog.String("error", err.Error()),
		)
	}
}
