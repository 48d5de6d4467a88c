package token_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rampagehq/userapi/pkg/token"
)

var signingKey = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		svc, err := token.New(signingKey, token.WithIssuer("userapi"))
		require.NoError(t, err)

		signed, err := svc.Issue("user-1", "jane@example.com")
		require.NoError(t, err)

		claims, err := svc.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "jane@example.com", claims.Email)
		assert.Equal(t, "userapi", claims.Issuer)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc, err := token.New(signingKey)
		require.NoError(t, err)

		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		})
		signed, err := expired.SignedString(signingKey)
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.ErrorIs(t, err, token.ErrExpiredToken)
	})

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()

		issuer, err := token.New(signingKey)
		require.NoError(t, err)
		verifier, err := token.New([]byte("another-32-byte-secret-key-value"))
		require.NoError(t, err)

		signed, err := issuer.Issue("user-1", "")
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		t.Parallel()

		issuer, err := token.New(signingKey, token.WithIssuer("other"))
		require.NoError(t, err)
		verifier, err := token.New(signingKey, token.WithIssuer("userapi"))
		require.NoError(t, err)

		signed, err := issuer.Issue("user-1", "")
		require.NoError(t, err)

		_, err = verifier.Verify(signed)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		svc, err := token.New(signingKey)
		require.NoError(t, err)

		_, err = svc.Verify("not.a.token")
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("empty signing key", func(t *testing.T) {
		t.Parallel()

		_, err := token.New(nil)
		assert.ErrorIs(t, err, token.ErrMissingSigningKey)
	})
}

func TestFromRequest(t *testing.T) {
	t.Parallel()

	newRequest := func(header string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	t.Run("bearer token", func(t *testing.T) {
		t.Parallel()

		value, err := token.FromRequest(newRequest("Bearer abc.def.ghi"))
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", value)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		t.Parallel()

		value, err := token.FromRequest(newRequest("bearer abc"))
		require.NoError(t, err)
		assert.Equal(t, "abc", value)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		_, err := token.FromRequest(newRequest(""))
		assert.ErrorIs(t, err, token.ErrMissingToken)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		_, err := token.FromRequest(newRequest("Basic dXNlcjpwYXNz"))
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()

		_, err := token.FromRequest(newRequest("Bearer"))
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})
}
