package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A challenge token only authorises the OTP endpoints, a
// session token is what the client keeps after verification.
const (
	PurposeChallenge = "otp_challenge"
	PurposeSession   = "session"
)

// Default lifetimes used by the dev backend.
const (
	DefaultChallengeTTL = 5 * time.Minute
	DefaultSessionTTL   = 8 * time.Hour
)

// Claims carried by both token kinds. Identity fields are only set on
// session tokens.
type Claims struct {
	jwt.RegisteredClaims

	Purpose string `json:"purpose"`

	// ChallengeID links a challenge token to the server side OTP state.
	ChallengeID string `json:"cid,omitempty"`

	Role         string `json:"role,omitempty"`
	EmployeeID   string `json:"employeeId,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	AdminID      string `json:"adminId,omitempty"`
	SuperAdminID string `json:"superAdminId,omitempty"`
	FirstLogin   bool   `json:"firstLogin,omitempty"`
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewChallengeClaims builds claims for the token handed out after a
// successful credential check.
func NewChallengeClaims(challengeID, subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Purpose:          PurposeChallenge,
		ChallengeID:      challengeID,
	}
}

// NewSessionClaims builds session claims for subject. Callers fill in the
// identity fields.
func NewSessionClaims(subject, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Purpose:          PurposeSession,
		Role:             role,
		EmployeeID:       subject,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
