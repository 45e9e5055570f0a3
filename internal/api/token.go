package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource supplies the bearer token attached to every request. The
// token is minted by an external auth collaborator (the stub backend's
// /auth/login, or a real deployment's identity service).
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed bearer token, e.g. one pasted into config.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// TokenExpired inspects a JWT without verifying its signature and reports
// whether its exp claim has passed. Opaque (non-JWT) tokens are never
// considered expired; the backend remains the authority either way.
func TokenExpired(raw string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
