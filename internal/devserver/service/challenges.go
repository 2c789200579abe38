package service

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/domain"
)

// ChallengeStore keeps pending OTP challenges in memory.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]domain.Challenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{challenges: make(map[string]domain.Challenge)}
}

func (s *ChallengeStore) Put(c domain.Challenge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
}

func (s *ChallengeStore) Get(id string) (domain.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	return c, ok
}

// Update applies fn to the stored challenge. fn returning false deletes it.
func (s *ChallengeStore) Update(id string, fn func(*domain.Challenge) bool) (domain.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[id]
	if !ok {
		return domain.Challenge{}, false
	}
	if !fn(&c) {
		delete(s.challenges, id)
		return c, true
	}
	s.challenges[id] = c
	return c, true
}

func (s *ChallengeStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
}

// DeleteExpired drops every challenge expired at now and returns how many
// were removed.
func (s *ChallengeStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, c := range s.challenges {
		if c.Expired(now) {
			delete(s.challenges, id)
			n++
		}
	}
	return n
}

func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}
