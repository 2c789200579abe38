package domain

import "time"

// Session pairs a session token with the identity it was issued for. The
// two are always set and cleared together.
type Session struct {
	Token    string
	Identity Identity
}

// ChallengeHandle is the short lived result of the credential step. It is
// kept in memory only and never persisted.
type ChallengeHandle struct {
	ChallengeToken string
	SubjectID      string
	IssuedAt       time.Time
}

// Expired reports whether the handle is older than ttl at now. A zero ttl
// never expires.
func (h ChallengeHandle) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return !now.Before(h.IssuedAt.Add(ttl))
}
