package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the console can show about the current token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the token as a JWT without verifying its signature. It is only
// used for display; the server remains the sole judge of the token. ok is false
// when no token is held or the token is not a JWT.
func (s *Store) Claims() (Claims, bool) {
	token := s.Token()
	if token == "" {
		return Claims{}, false
	}
	return parseClaims(token)
}

func parseClaims(token string) (Claims, bool) {
	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return Claims{}, false
	}

	out := Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		out.ExpiresAt = registered.ExpiresAt.Time
	}
	return out, true
}
