package flow

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
)

// DefaultChallengeTTL bounds how long a handle is used locally.
const DefaultChallengeTTL = 5 * time.Minute

// ChallengeSlot hands the challenge from the credential step to the OTP
// step. It lives in memory only.
type ChallengeSlot struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	handle *domain.ChallengeHandle
}

// NewChallengeSlot returns an empty slot. A zero ttl uses DefaultChallengeTTL.
func NewChallengeSlot(ttl time.Duration) *ChallengeSlot {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &ChallengeSlot{ttl: ttl, now: time.Now}
}

// Put replaces any previous handle.
func (s *ChallengeSlot) Put(h domain.ChallengeHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = &h
}

// Peek returns the live handle. An expired handle is dropped.
func (s *ChallengeSlot) Peek() (domain.ChallengeHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return domain.ChallengeHandle{}, false
	}
	if s.handle.Expired(s.now(), s.ttl) {
		s.handle = nil
		return domain.ChallengeHandle{}, false
	}
	return *s.handle, true
}

func (s *ChallengeSlot) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = nil
}
