package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateRules(t *testing.T) {
	t.Parallel()

	rs := profileUpdateRules()

	t.Run("accepts a full valid payload", func(t *testing.T) {
		t.Parallel()

		accepted, errs := rs.Validate(map[string]any{
			"name":        "Anne-Marie O'Neill",
			"email":       "Anne.Marie+news@Example.COM",
			"phoneNumber": "+14155552671",
			"dateOfBirth": "1990-04-12",
			"bio":         "Backend engineer.",
			"avatar":      "https://cdn.example.com/a/anne.png",
		})
		require.Empty(t, errs)
		assert.Equal(t, "Anne.Marie@example.com", accepted["email"], "domain folded, sub-address stripped")
		assert.Equal(t, "Anne-Marie O'Neill", accepted["name"])
	})

	t.Run("every field is optional", func(t *testing.T) {
		t.Parallel()

		accepted, errs := rs.Validate(map[string]any{"bio": "hi"})
		require.Empty(t, errs)
		assert.Equal(t, map[string]string{"bio": "hi"}, accepted)
	})

	t.Run("collects one error per invalid field", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"name":        "X",
			"email":       "nope",
			"phoneNumber": "abc",
			"avatar":      "not a url",
		})
		require.Len(t, errs, 4)
		assert.ElementsMatch(t, []string{"name", "email", "phoneNumber", "avatar"}, errs.Fields())
	})

	t.Run("name rejects digits", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{"name": "R2D2"})
		require.Len(t, errs, 1)
		assert.True(t, errs.Has("name"))
	})

	t.Run("bio length bound is inclusive", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, 500)
		for i := range long {
			long[i] = 'a'
		}

		_, errs := rs.Validate(map[string]any{"bio": string(long)})
		assert.Empty(t, errs)

		_, errs = rs.Validate(map[string]any{"bio": string(long) + "a"})
		assert.True(t, errs.Has("bio"))
	})
}

func TestPasswordChangeRules(t *testing.T) {
	t.Parallel()

	rs := passwordChangeRules()

	t.Run("matching confirmation is valid", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"currentPassword": "OldPass1!",
			"newPassword":     "Abcdef1!",
			"confirmPassword": "Abcdef1!",
		})
		assert.Empty(t, errs)
	})

	t.Run("mismatched confirmation is exactly one error on the confirmation field", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"currentPassword": "OldPass1!",
			"newPassword":     "Abcdef1!",
			"confirmPassword": "Abcdef1!!",
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "confirmPassword", errs[0].Field)
	})

	t.Run("missing current password is required", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"currentPassword": "",
			"newPassword":     "Abcdef1!",
			"confirmPassword": "Abcdef1!",
		})
		require.Len(t, errs, 1)
		assert.True(t, errs.Has("currentPassword"))
	})

	t.Run("weak passwords fail the first violated constraint only", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"currentPassword": "OldPass1!",
			"newPassword":     "abc",
			"confirmPassword": "abc",
		})
		require.Len(t, errs.Get("newPassword"), 1, "first failing constraint wins per field")
	})

	t.Run("password without special character is rejected", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"currentPassword": "OldPass1!",
			"newPassword":     "Abcdefg1",
			"confirmPassword": "Abcdefg1",
		})
		assert.True(t, errs.Has("newPassword"))
	})
}

func TestPreferencesRules(t *testing.T) {
	t.Parallel()

	rs := preferencesRules()

	t.Run("valid payload", func(t *testing.T) {
		t.Parallel()

		accepted, errs := rs.Validate(map[string]any{
			"currency": "USD",
			"language": "en-US",
			"timezone": "Europe/Berlin",
			"theme":    "high-contrast",
		})
		require.Empty(t, errs)
		assert.Len(t, accepted, 4)
	})

	t.Run("theme enum is case sensitive", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{"theme": "Dark"})
		assert.True(t, errs.Has("theme"))
	})

	t.Run("currency must be exactly three characters", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{"currency": "US"})
		assert.True(t, errs.Has("currency"))
	})
}

func TestAccountDeletionRules(t *testing.T) {
	t.Parallel()

	rs := accountDeletionRules()

	t.Run("exact confirmation phrase passes", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"password":        "Secret1!",
			"confirmDeletion": "DELETE_MY_ACCOUNT",
		})
		assert.Empty(t, errs)
	})

	t.Run("wrong case confirmation is rejected", func(t *testing.T) {
		t.Parallel()

		_, errs := rs.Validate(map[string]any{
			"password":        "Secret1!",
			"confirmDeletion": "delete_my_account",
		})
		require.Len(t, errs, 1)
		assert.True(t, errs.Has("confirmDeletion"))
	})
}

func TestVerifyEmailRules(t *testing.T) {
	t.Parallel()

	rs := verifyEmailRules()

	_, errs := rs.Validate(map[string]any{"code": "12345"})
	assert.True(t, errs.Has("code"), "code must be exactly six characters")

	_, errs = rs.Validate(map[string]any{})
	assert.True(t, errs.Has("code"), "code is required")

	_, errs = rs.Validate(map[string]any{"code": "482913"})
	assert.Empty(t, errs)
}

func TestQueryRules(t *testing.T) {
	t.Parallel()

	t.Run("timeframe enum", func(t *testing.T) {
		t.Parallel()

		rs := timeframeRules()
		_, errs := rs.Validate(map[string]any{"timeframe": "fortnight"})
		assert.True(t, errs.Has("timeframe"))

		accepted, errs := rs.Validate(map[string]any{"timeframe": "week"})
		require.Empty(t, errs)
		assert.Equal(t, "week", accepted["timeframe"])
	})

	t.Run("stats period enum", func(t *testing.T) {
		t.Parallel()

		rs := statsPeriodRules()
		_, errs := rs.Validate(map[string]any{"period": "14d"})
		assert.True(t, errs.Has("period"))

		_, errs = rs.Validate(map[string]any{"period": "90d"})
		assert.Empty(t, errs)
	})
}
