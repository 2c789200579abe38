package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

// Storage keys, shared with the web client.
const (
	KeyToken = "authToken"
	KeyUser  = "authUser"
)

// Listener is told about every commit and clear. sess is nil after a clear.
type Listener func(sess *domain.Session)

// Store is the single source of truth for who is signed in. It keeps an
// immutable snapshot in memory and mirrors it to a storage bucket.
type Store struct {
	bucket *storage.Bucket
	log    *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	current   *domain.Session
	listeners []Listener
}

// New creates a store over bucket. Call Restore to load a previous session.
func New(bucket *storage.Bucket, log *slog.Logger) *Store {
	return &Store{
		bucket: bucket,
		log:    log.With("component", "session"),
		now:    time.Now,
	}
}

// Restore loads the persisted session into memory. Any unusable data is
// removed from storage and reported as no session; it never fails.
func (s *Store) Restore(ctx context.Context) (domain.Session, bool) {
	token, tokErr := s.bucket.Get(ctx, KeyToken)
	user, userErr := s.bucket.Get(ctx, KeyUser)

	for _, err := range []error{tokErr, userErr} {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("session storage read failed", "err", err)
			return domain.Session{}, false
		}
	}
	if tokErr != nil || userErr != nil {
		if tokErr == nil || userErr == nil {
			s.heal(ctx, "incomplete session")
		}
		return domain.Session{}, false
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(user), &id); err != nil {
		s.heal(ctx, "malformed identity")
		return domain.Session{}, false
	}
	if token == "" {
		s.heal(ctx, "empty token")
		return domain.Session{}, false
	}
	if !id.Role().Known() {
		s.heal(ctx, "unknown role")
		return domain.Session{}, false
	}
	if exp, ok, err := authsdk.TokenExpiry(token); err == nil && ok && !s.now().Before(exp) {
		s.heal(ctx, "token expired")
		return domain.Session{}, false
	}

	sess := &domain.Session{Token: token, Identity: id}
	s.swap(sess)

	s.log.Info("session restored", "employee_id", id.EmployeeID, "role", id.Role())
	return *sess, true
}

// heal drops whatever is stored. Failures are only logged.
func (s *Store) heal(ctx context.Context, reason string) {
	s.log.Warn("discarding stored session", "reason", reason)
	if err := s.bucket.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.log.Warn("session storage delete failed", "err", err)
	}
}

// Commit replaces the session. Memory is updated first; a storage failure
// is returned wrapped in ErrStorageUnavailable but the session stays valid
// for the life of the process.
func (s *Store) Commit(ctx context.Context, token string, id domain.Identity) error {
	if token == "" {
		return &ValidationError{Field: "token", Message: "must not be empty"}
	}
	if err := id.Validate(); err != nil {
		return &ValidationError{Field: "identity", Message: err.Error()}
	}

	user, err := json.Marshal(id)
	if err != nil {
		return &ValidationError{Field: "identity", Message: err.Error()}
	}

	s.swap(&domain.Session{Token: token, Identity: id})

	if err := s.bucket.Set(ctx, KeyToken, token); err != nil {
		s.log.Warn("session token not persisted", "err", err)
		return storageErr("write token", err)
	}
	if err := s.bucket.Set(ctx, KeyUser, string(user)); err != nil {
		s.log.Warn("session identity not persisted", "err", err)
		// Never leave a token behind without its identity.
		_ = s.bucket.Delete(ctx, KeyToken)
		return storageErr("write identity", err)
	}

	s.log.Info("session committed", "employee_id", id.EmployeeID, "role", id.Role())
	return nil
}

// Clear signs out. It is idempotent and always clears memory.
func (s *Store) Clear(ctx context.Context) error {
	s.swap(nil)

	if err := s.bucket.Purge(ctx, KeyToken, KeyUser); err != nil {
		s.log.Warn("session storage clear failed", "err", err)
		return storageErr("clear", err)
	}

	s.log.Info("session cleared")
	return nil
}

// Current returns a copy of the session, if any.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// Snapshot returns the session pointer for read-only use by the guard.
func (s *Store) Snapshot() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) swap(sess *domain.Session) {
	s.mu.Lock()
	s.current = sess
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess)
	}
}
