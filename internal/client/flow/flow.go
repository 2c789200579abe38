// Package flow holds the sign-in state machines: credential exchange, OTP
// challenge and first-login password setup. Views drive them; the flows
// own every transition and talk to the backend through small interfaces
// that *authsdk.Client satisfies.
package flow

import (
	"context"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

// Authenticator performs the credential step.
type Authenticator interface {
	Login(ctx context.Context, req authsdk.LoginRequest) (*authsdk.LoginResponse, error)
}

// OTPVerifier performs the challenge step.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, challengeToken, code, employeeID string) (*authsdk.VerifyResponse, error)
}

// OTPResender is optionally implemented by an OTPVerifier.
type OTPResender interface {
	ResendOTP(ctx context.Context, challengeToken string) error
}

// PasswordSetter stores a first-login password.
type PasswordSetter interface {
	SetPassword(ctx context.Context, req authsdk.SetPasswordRequest) (string, error)
}

// SessionCommitter receives the verified session.
type SessionCommitter interface {
	Commit(ctx context.Context, token string, id domain.Identity) error
}

// lifetime is embedded by every flow: a context cancelled by Close.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// bind returns a context cancelled by either ctx or the flow's Close.
func (l lifetime) bind(ctx context.Context) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}
