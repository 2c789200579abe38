package authsdk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by TokenExpiry for opaque tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// ok is false when the token carries no exp. The result is advisory: the
// backend remains the authority on whether a token is valid.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false, ErrNotJWT
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}
