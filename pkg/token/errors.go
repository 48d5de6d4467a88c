package token

import "errors"

var (
	ErrMissingSigningKey = errors.New("missing signing key")
	ErrMissingToken      = errors.New("missing token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token has expired")
)
