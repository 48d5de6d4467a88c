package pipeline_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampagehq/userapi/pipeline"
	"github.com/rampagehq/userapi/pkg/validator"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("auth failure", func(t *testing.T) {
		t.Parallel()

		status, env := pipeline.Translate(&pipeline.AuthError{Reason: "token expired"})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.False(t, env.Success)
		assert.Equal(t, "auth", env.Kind)
		assert.Equal(t, "Authentication required", env.Message)
		assert.NotContains(t, env.Message, "token expired", "internal reason must not leak")
	})

	t.Run("blocked account status", func(t *testing.T) {
		t.Parallel()

		status, env := pipeline.Translate(&pipeline.StatusError{Status: "suspended"})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "account_status", env.Kind)
	})

	t.Run("rate limit carries retry seconds", func(t *testing.T) {
		t.Parallel()

		status, env := pipeline.Translate(&pipeline.RateLimitError{
			Category:   "password_change",
			RetryAfter: 90 * time.Second,
		})
		assert.Equal(t, http.StatusTooManyRequests, status)
		assert.Equal(t, "rate_limit", env.Kind)
		assert.Equal(t, 90, env.RetryAfter)
	})

	t.Run("rate limit retry is never below one second", func(t *testing.T) {
		t.Parallel()

		_, env := pipeline.Translate(&pipeline.RateLimitError{
			Category:   "password_change",
			RetryAfter: 200 * time.Millisecond,
		})
		assert.Equal(t, 1, env.RetryAfter)
	})

	t.Run("validation failure lists every field error", func(t *testing.T) {
		t.Parallel()

		errs := validator.ValidationErrors{
			{Field: "email", Message: "must be a valid email address"},
			{Field: "name", Message: "must be at least 2 characters long"},
		}

		status, env := pipeline.Translate(errs)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation", env.Kind)
		require.Len(t, env.Errors, 2)
		assert.Contains(t, env.Errors, "email: must be a valid email address")
		assert.Contains(t, env.Errors, "name: must be at least 2 characters long")
	})

	t.Run("cast failure hides the offending value", func(t *testing.T) {
		t.Parallel()

		status, env := pipeline.Translate(&pipeline.CastError{Value: "not-an-object-id"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "cast", env.Kind)
		assert.Equal(t, "Invalid data format", env.Message)
	})

	t.Run("wrapped taxonomy errors still classify", func(t *testing.T) {
		t.Parallel()

		wrapped := errors.Join(errors.New("stage context"), &pipeline.AuthError{Reason: "no header"})
		status, _ := pipeline.Translate(wrapped)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unclassified failure becomes opaque internal error", func(t *testing.T) {
		t.Parallel()

		status, env := pipeline.Translate(errors.New("dial tcp 10.0.0.5:27017: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal", env.Kind)
		assert.Equal(t, "Internal server error in user system", env.Message)
		assert.NotContains(t, env.Message, "dial tcp")
	})

	t.Run("nil data and errors are omitted from the envelope", func(t *testing.T) {
		t.Parallel()

		_, env := pipeline.Translate(&pipeline.CastError{Value: "x"})
		assert.Nil(t, env.Data)
		assert.Empty(t, env.Errors)
	})
}
