package activity_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampagehq/userapi/pkg/activity"
)

type captureStorage struct {
	mu      sync.Mutex
	records []activity.Record
	err     error
}

func (s *captureStorage) Store(ctx context.Context, record activity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *captureStorage) all() []activity.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]activity.Record(nil), s.records...)
}

func TestLoggerLog(t *testing.T) {
	t.Parallel()

	t.Run("writes a complete record", func(t *testing.T) {
		t.Parallel()

		storage := &captureStorage{}
		logger := activity.NewLogger(storage)

		logger.Log(context.Background(), "user-1", "CHANGE_PASSWORD", activity.OutcomeSuccess)

		records := storage.all()
		require.Len(t, records, 1)
		assert.NotEmpty(t, records[0].ID)
		assert.Equal(t, "user-1", records[0].SubjectID)
		assert.Equal(t, "CHANGE_PASSWORD", records[0].Action)
		assert.Equal(t, activity.OutcomeSuccess, records[0].Outcome)
		assert.False(t, records[0].CreatedAt.IsZero())
	})

	t.Run("record options attach failure details", func(t *testing.T) {
		t.Parallel()

		storage := &captureStorage{}
		logger := activity.NewLogger(storage)

		logger.Log(context.Background(), "user-1", "DELETE_ACCOUNT", activity.OutcomeFailure,
			activity.WithError(errors.New("password mismatch")),
			activity.WithMetadata("attempt", 3),
		)

		records := storage.all()
		require.Len(t, records, 1)
		assert.Equal(t, "password mismatch", records[0].Error)
		assert.Equal(t, 3, records[0].Metadata["attempt"])
	})

	t.Run("storage failure is swallowed", func(t *testing.T) {
		t.Parallel()

		storage := &captureStorage{err: errors.New("insert failed")}
		logger := activity.NewLogger(storage)

		// Must not panic or surface the error in any way.
		logger.Log(context.Background(), "user-1", "GET_PROFILE", activity.OutcomeSuccess)
		assert.Empty(t, storage.all())
	})

	t.Run("extractors capture request context", func(t *testing.T) {
		t.Parallel()

		storage := &captureStorage{}
		logger := activity.NewLogger(storage,
			activity.WithRequestIDExtractor(func(context.Context) (string, bool) {
				return "req-1", true
			}),
			activity.WithIPExtractor(func(context.Context) (string, bool) {
				return "203.0.113.9", true
			}),
		)

		logger.Log(context.Background(), "user-1", "GET_PROFILE", activity.OutcomeSuccess)

		records := storage.all()
		require.Len(t, records, 1)
		assert.Equal(t, "req-1", records[0].RequestID)
		assert.Equal(t, "203.0.113.9", records[0].IP)
	})

	t.Run("concurrent logging is safe and loses nothing", func(t *testing.T) {
		t.Parallel()

		storage := &captureStorage{}
		logger := activity.NewLogger(storage)

		const n = 50
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				logger.Log(context.Background(), "user-1", "GET_PROFILE", activity.OutcomeSuccess)
			}()
		}
		wg.Wait()

		assert.Len(t, storage.all(), n)
	})
}

func TestNewLoggerPanicsWithoutStorage(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { activity.NewLogger(nil) })
}
