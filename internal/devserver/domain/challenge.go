package domain

import "time"

// Challenge is the server side state behind a challenge token.
type Challenge struct {
	ID         string    // ULID, carried in the token's cid claim
	EmployeeID string    // subject the code was sent to
	Secret     string    // base32 HOTP secret
	Counter    uint64    // HOTP counter, bumped on resend
	Attempts   int       // failed verifications (max 5)
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the challenge is past its expiry at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
