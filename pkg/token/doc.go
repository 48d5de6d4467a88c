// Package token issues and verifies the HS256 access tokens the pipeline's
// authentication stage consumes.
//
//	svc, err := token.New([]byte(cfg.SigningKey), token.WithIssuer("userapi"))
//	raw, err := token.FromRequest(r)
//	claims, err := svc.Verify(raw)
package token
