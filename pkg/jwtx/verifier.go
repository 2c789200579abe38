package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrUnknownKID   = errors.New("jwtx: unknown kid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// IsExpired reports whether err came from an expired token, whether it was
// detected by the parser or by claim validation.
func IsExpired(err error) bool {
	return errors.Is(err, ErrExpired) || errors.Is(err, jwt.ErrTokenExpired)
}
