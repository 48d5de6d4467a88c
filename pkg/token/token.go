package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated subject. Subject is the user id; Email is
// included so handlers can address the user without a storage round trip.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Service signs and verifies HS256 access tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer pins the expected "iss" claim.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithTTL sets the lifetime of issued tokens. Defaults to 24h.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New creates a token service. The key should be at least 32 bytes for
// HMAC-SHA256.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: signingKey,
		ttl:        24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed token for the subject.
func (s *Service) Issue(subjectID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. The signing
// method is pinned to HS256 so an attacker cannot downgrade to "none".
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest extracts a bearer token from the Authorization header.
func FromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || value == "" {
		return "", ErrInvalidToken
	}
	return value, nil
}
