package flow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

type CredentialState int

const (
	CredentialIdle CredentialState = iota
	CredentialSubmitting
	CredentialChallengeIssued
	CredentialFailed
)

// CredentialFlow exchanges a mobile number and password for a challenge.
type CredentialFlow struct {
	auth Authenticator
	slot *ChallengeSlot
	log  *slog.Logger
	now  func() time.Time
	lifetime

	mu         sync.Mutex
	state      CredentialState
	identifier string
	secret     string
	subjectID  string
	closed     bool
}

func NewCredentialFlow(auth Authenticator, slot *ChallengeSlot, log *slog.Logger) *CredentialFlow {
	return &CredentialFlow{
		auth:     auth,
		slot:     slot,
		log:      log.With("component", "credential_flow"),
		now:      time.Now,
		lifetime: newLifetime(),
	}
}

// SetFields updates the form. A failed flow returns to idle on edit.
func (f *CredentialFlow) SetFields(identifier, secret string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.identifier, f.secret = identifier, secret
	if f.state == CredentialFailed {
		f.state = CredentialIdle
	}
}

// SetSubjectID records the subject from the /login/:subjectId route.
func (f *CredentialFlow) SetSubjectID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjectID = id
}

func (f *CredentialFlow) State() CredentialState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit sends the credentials. On success the handle is in the slot
// before Submit returns.
func (f *CredentialFlow) Submit(ctx context.Context) (domain.ChallengeHandle, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return domain.ChallengeHandle{}, ErrClosed
	}
	if f.state == CredentialSubmitting {
		f.mu.Unlock()
		return domain.ChallengeHandle{}, ErrBusy
	}
	if f.identifier == "" || f.secret == "" {
		f.state = CredentialFailed
		f.mu.Unlock()
		return domain.ChallengeHandle{}, &ValidationError{Field: "credentials", Message: MsgCredentialsRequired}
	}

	req := authsdk.LoginRequest{
		MobileNumber: f.identifier,
		Password:     f.secret,
		EmployeeID:   f.subjectID,
	}
	subject := f.subjectID
	f.state = CredentialSubmitting
	f.mu.Unlock()

	reqCtx, done := f.bind(ctx)
	defer done()

	resp, err := f.auth.Login(reqCtx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return domain.ChallengeHandle{}, ErrClosed
	}
	if err != nil {
		f.state = CredentialFailed
		fe := classify(err, MsgLoginFailed, false)
		f.log.Warn("login failed", "kind", fe.Kind, "err", err)
		return domain.ChallengeHandle{}, fe
	}

	if resp.SubjectID != "" {
		subject = resp.SubjectID
	}
	handle := domain.ChallengeHandle{
		ChallengeToken: resp.ChallengeToken,
		SubjectID:      subject,
		IssuedAt:       f.now(),
	}
	f.slot.Put(handle)
	f.state = CredentialChallengeIssued

	f.log.Info("challenge issued", "subject_id", subject)
	return handle, nil
}

// Close abandons the flow. A response arriving later is dropped.
func (f *CredentialFlow) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
}
