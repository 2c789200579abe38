package flow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/leavedesk/internal/client/countdown"
	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
	"github.com/aussiebroadwan/leavedesk/internal/client/session"
)

type OTPState int

const (
	OTPAwaitingInput OTPState = iota
	OTPVerifying
	OTPVerified
	OTPRejected
)

// Result of a successful verification.
type Result struct {
	// Destination is the role home, or /unauthorized for unknown roles.
	Destination string
	Session     domain.Session
	// Warning is set when the session could not be persisted. The user is
	// signed in regardless.
	Warning error
	// SetPasswordRequired is set on first login.
	SetPasswordRequired bool
}

// OTPFlow verifies the one-time code for the challenge in the slot and
// runs the resend countdown.
type OTPFlow struct {
	verifier OTPVerifier
	resender OTPResender
	sessions SessionCommitter
	slot     *ChallengeSlot
	timer    *countdown.Timer
	buf      *OTPBuffer
	log      *slog.Logger
	lifetime

	mu     sync.Mutex
	state  OTPState
	closed bool
}

// NewOTPFlow wires the flow. Resend goes to the backend when verifier also
// implements OTPResender.
func NewOTPFlow(
	verifier OTPVerifier,
	sessions SessionCommitter,
	slot *ChallengeSlot,
	timer *countdown.Timer,
	log *slog.Logger,
) *OTPFlow {
	f := &OTPFlow{
		verifier: verifier,
		sessions: sessions,
		slot:     slot,
		timer:    timer,
		buf:      &OTPBuffer{},
		log:      log.With("component", "otp_flow"),
		lifetime: newLifetime(),
	}
	if r, ok := verifier.(OTPResender); ok {
		f.resender = r
	}
	return f
}

// Activate starts the resend countdown. Call once the OTP view is shown.
func (f *OTPFlow) Activate() {
	f.mu.Lock()
	f.state = OTPAwaitingInput
	f.mu.Unlock()
	f.timer.Start()
}

func (f *OTPFlow) Buffer() *OTPBuffer      { return f.buf }
func (f *OTPFlow) Timer() *countdown.Timer { return f.timer }

func (f *OTPFlow) State() OTPState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subject returns the subject of the pending challenge, if any.
func (f *OTPFlow) Subject() (string, bool) {
	h, ok := f.slot.Peek()
	return h.SubjectID, ok
}

// CanResend reports whether the countdown has run out.
func (f *OTPFlow) CanResend() bool {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	return !closed && f.timer.State().Expired
}

// Resend requests a new code and restarts the countdown. When the backend
// refuses, the countdown stays expired so the user can try again.
func (f *OTPFlow) Resend(ctx context.Context) error {
	if !f.CanResend() {
		return ErrResendNotReady
	}

	handle, ok := f.slot.Peek()
	if !ok {
		return &FlowError{Kind: KindExpired, Message: MsgSessionExpired}
	}

	if f.resender != nil {
		reqCtx, done := f.bind(ctx)
		defer done()

		if err := f.resender.ResendOTP(reqCtx, handle.ChallengeToken); err != nil {
			fe := classify(err, MsgResendFailed, true)
			if fe.Kind == KindExpired {
				f.slot.Discard()
			}
			f.log.Warn("resend failed", "kind", fe.Kind, "err", err)
			return fe
		}
	}

	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return ErrClosed
	}

	f.timer.Restart()
	f.log.Info("otp resent", "subject_id", handle.SubjectID)
	return nil
}

// Verify submits the buffered code.
func (f *OTPFlow) Verify(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return Result{}, ErrClosed
	}
	if f.state == OTPVerifying {
		f.mu.Unlock()
		return Result{}, ErrBusy
	}
	if !f.buf.Complete() {
		f.mu.Unlock()
		return Result{}, &ValidationError{Field: "otp", Message: MsgIncompleteOTP}
	}
	handle, ok := f.slot.Peek()
	if !ok {
		f.mu.Unlock()
		return Result{}, &FlowError{Kind: KindExpired, Message: MsgSessionExpired}
	}
	code := f.buf.Code()
	f.state = OTPVerifying
	f.mu.Unlock()

	reqCtx, done := f.bind(ctx)
	defer done()

	resp, err := f.verifier.VerifyOTP(reqCtx, handle.ChallengeToken, code, handle.SubjectID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return Result{}, ErrClosed
	}
	if err != nil {
		f.state = OTPRejected
		fe := classify(err, MsgInvalidOTP, true)
		if fe.Kind == KindExpired {
			f.slot.Discard()
		}
		f.log.Warn("otp verification failed", "kind", fe.Kind, "err", err)
		return Result{}, fe
	}

	employeeID := resp.EmployeeID
	if employeeID == "" {
		employeeID = handle.SubjectID
	}
	role := domain.Role(resp.Role)
	id := domain.Identity{
		EmployeeID:  employeeID,
		DisplayName: resp.DisplayName,
		FirstLogin:  resp.FirstLogin,
		Profile:     domain.NewProfile(role, resp.AdminID, resp.SuperAdminID),
	}

	var warning error
	if err := f.sessions.Commit(ctx, resp.Token, id); err != nil {
		if !errors.Is(err, session.ErrStorageUnavailable) {
			f.state = OTPRejected
			f.log.Warn("verified session rejected", "err", err)
			return Result{}, &FlowError{Kind: KindTransport, Message: MsgUnexpectedResponse, Err: err}
		}
		warning = err
	}

	f.slot.Discard()
	f.timer.Stop()
	f.state = OTPVerified

	f.log.Info("otp verified", "employee_id", employeeID, "role", role)
	return Result{
		Destination:         guard.HomeFor(role),
		Session:             domain.Session{Token: resp.Token, Identity: id},
		Warning:             warning,
		SetPasswordRequired: resp.FirstLogin,
	}, nil
}

// Close stops the countdown and drops any in-flight verification.
func (f *OTPFlow) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.timer.Stop()
	f.cancel()
}
