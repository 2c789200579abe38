package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier validates JWTs signed using EdDSA (Ed25519).
type EdDSAVerifier struct {
	issuer string
	now    func() time.Time

	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

// NewVerifierEdDSA creates a verifier trusting the public keys of signers.
func NewVerifierEdDSA(issuer string, signers ...*EdDSASigner) *EdDSAVerifier {
	v := &EdDSAVerifier{
		issuer: issuer,
		now:    time.Now,
		keys:   make(map[string]ed25519.PublicKey, len(signers)),
	}
	for _, s := range signers {
		v.AddKey(s.KID(), s.PublicKey())
	}
	return v
}

// AddKey trusts pub for tokens carrying kid.
func (v *EdDSAVerifier) AddKey(kid string, pub ed25519.PublicKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[kid] = pub
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(v.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: missing kid", ErrMalformed)
		}

		v.mu.RLock()
		pub, ok := v.keys[kid]
		v.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}
