package flow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/countdown"
	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
	"github.com/aussiebroadwan/leavedesk/internal/client/session"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type otpFixture struct {
	flow     *flow.OTPFlow
	slot     *flow.ChallengeSlot
	timer    *countdown.Timer
	sessions *session.Store
}

func newOTPFixture(t *testing.T, verifier flow.OTPVerifier, s storage.Storage) otpFixture {
	t.Helper()

	slot := flow.NewChallengeSlot(0)
	slot.Put(domain.ChallengeHandle{ChallengeToken: "challenge-1", SubjectID: "EMP001", IssuedAt: time.Now()})

	timer := countdown.New(3, nil)
	sessions := newSessionStore(t, s)
	f := flow.NewOTPFlow(verifier, sessions, slot, timer, slogx.Discard())
	t.Cleanup(f.Close)

	f.Activate()
	return otpFixture{flow: f, slot: slot, timer: timer, sessions: sessions}
}

func verifiedAs(role string) func(string, string, string) (*authsdk.VerifyResponse, error) {
	return func(token, code, employeeID string) (*authsdk.VerifyResponse, error) {
		return &authsdk.VerifyResponse{
			Token:       "session-" + role,
			Role:        role,
			EmployeeID:  employeeID,
			DisplayName: "Test User",
			AdminID:     "ADM1",
		}, nil
	}
}

func TestOTPIncomplete(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{verify: verifiedAs("FACULTY")}
	fx := newOTPFixture(t, backend, storage.NewMemory())
	fx.flow.Buffer().Paste("12345")

	_, err := fx.flow.Verify(context.Background())

	var vErr *flow.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, flow.MsgIncompleteOTP, vErr.Message)
	require.Zero(t, backend.callCount())
}

func TestOTPWithoutChallenge(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{verify: verifiedAs("FACULTY")}
	fx := newOTPFixture(t, backend, storage.NewMemory())
	fx.slot.Discard()
	fx.flow.Buffer().Paste("123456")

	_, err := fx.flow.Verify(context.Background())
	require.True(t, flow.IsKind(err, flow.KindExpired))
	require.Equal(t, flow.MsgSessionExpired, err.(*flow.FlowError).Display())
	require.Zero(t, backend.callCount())

	_, ok := fx.flow.Subject()
	require.False(t, ok)
}

func TestOTPVerifyDestinations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want string
	}{
		{"SUPERADMIN", guard.PathSuperAdminHome},
		{"ADMIN", guard.PathAdminHome},
		{"FACULTY", guard.PathFacultyHome},
		{"LIBRARIAN", guard.PathUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{verify: verifiedAs(tt.role)}
			fx := newOTPFixture(t, backend, storage.NewMemory())
			fx.flow.Buffer().Paste("123456")

			res, err := fx.flow.Verify(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Destination)
			require.NoError(t, res.Warning)
			require.Equal(t, "session-"+tt.role, res.Session.Token)
			require.Equal(t, "EMP001", res.Session.Identity.EmployeeID)
			require.Equal(t, domain.Role(tt.role), res.Session.Identity.Role())
			require.Equal(t, flow.OTPVerified, fx.flow.State())
			require.Equal(t, "123456", backend.lastCode)

			cur, ok := fx.sessions.Current()
			require.True(t, ok)
			require.Equal(t, res.Session.Token, cur.Token)

			_, ok = fx.slot.Peek()
			require.False(t, ok, "handle is consumed")
			require.False(t, fx.timer.Running())
		})
	}
}

func TestOTPFirstLogin(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{verify: func(string, string, string) (*authsdk.VerifyResponse, error) {
		return &authsdk.VerifyResponse{Token: "session", Role: "FACULTY", EmployeeID: "EMP001", FirstLogin: true}, nil
	}}
	fx := newOTPFixture(t, backend, storage.NewMemory())
	fx.flow.Buffer().Paste("123456")

	res, err := fx.flow.Verify(context.Background())
	require.NoError(t, err)
	require.True(t, res.SetPasswordRequired)
	require.True(t, res.Session.Identity.FirstLogin)
	require.Equal(t, guard.PathFacultyHome, res.Destination)
}

func TestOTPRejectedKeepsChallenge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"server message", apiErr(400, "OTP does not match"), "OTP does not match"},
		{"no message", apiErr(400, ""), flow.MsgInvalidOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := &fakeBackend{verify: func(string, string, string) (*authsdk.VerifyResponse, error) {
				return nil, tt.err
			}}
			fx := newOTPFixture(t, backend, storage.NewMemory())
			fx.flow.Buffer().Paste("000000")

			_, err := fx.flow.Verify(context.Background())
			var fe *flow.FlowError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, flow.KindRejected, fe.Kind)
			require.Equal(t, tt.message, fe.Display())
			require.Equal(t, flow.OTPRejected, fx.flow.State())

			subject, ok := fx.flow.Subject()
			require.True(t, ok)
			require.Equal(t, "EMP001", subject)
			require.False(t, fx.sessions.IsAuthenticated())
		})
	}
}

func TestOTPExpiredDiscardsChallenge(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		apiErr(410, ""),
		apiErr(401, "OTP session expired"),
		apiErr(440, "Token Expired"),
	} {
		backend := &fakeBackend{verify: func(string, string, string) (*authsdk.VerifyResponse, error) {
			return nil, err
		}}
		fx := newOTPFixture(t, backend, storage.NewMemory())
		fx.flow.Buffer().Paste("123456")

		_, vErr := fx.flow.Verify(context.Background())
		require.True(t, flow.IsKind(vErr, flow.KindExpired), "%v", err)

		_, ok := fx.slot.Peek()
		require.False(t, ok)
	}
}

func TestOTPTransportFailures(t *testing.T) {
	t.Parallel()

	t.Run("network", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{verify: func(string, string, string) (*authsdk.VerifyResponse, error) {
			return nil, errors.New("dial tcp: connection refused")
		}}
		fx := newOTPFixture(t, backend, storage.NewMemory())
		fx.flow.Buffer().Paste("123456")

		_, err := fx.flow.Verify(context.Background())
		require.True(t, flow.IsKind(err, flow.KindTransport))

		_, ok := fx.slot.Peek()
		require.True(t, ok)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{verify: func(string, string, string) (*authsdk.VerifyResponse, error) {
			return &authsdk.VerifyResponse{Role: "FACULTY"}, nil
		}}
		fx := newOTPFixture(t, backend, storage.NewMemory())
		fx.flow.Buffer().Paste("123456")

		_, err := fx.flow.Verify(context.Background())
		var fe *flow.FlowError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, flow.KindTransport, fe.Kind)
		require.Equal(t, flow.MsgUnexpectedResponse, fe.Display())
		require.False(t, fx.sessions.IsAuthenticated())
	})
}

func TestOTPStorageFailureStillSignsIn(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{verify: verifiedAs("ADMIN")}
	fx := newOTPFixture(t, backend, failingStorage{storage.NewMemory()})
	fx.flow.Buffer().Paste("123456")

	res, err := fx.flow.Verify(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, res.Warning, session.ErrStorageUnavailable)
	require.Equal(t, guard.PathAdminHome, res.Destination)
	require.True(t, fx.sessions.IsAuthenticated())
}

func TestOTPBusyAndClose(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		verify:  verifiedAs("FACULTY"),
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	fx := newOTPFixture(t, backend, storage.NewMemory())
	fx.flow.Buffer().Paste("123456")

	done := make(chan error, 1)
	go func() {
		_, err := fx.flow.Verify(context.Background())
		done <- err
	}()
	<-backend.entered

	_, err := fx.flow.Verify(context.Background())
	require.ErrorIs(t, err, flow.ErrBusy)

	fx.flow.Close()
	require.ErrorIs(t, <-done, flow.ErrClosed)
	require.False(t, fx.sessions.IsAuthenticated())
	require.False(t, fx.flow.CanResend())
}

func expire(timer *countdown.Timer) {
	for !timer.State().Expired {
		timer.Tick()
	}
}

func TestOTPResend(t *testing.T) {
	t.Parallel()

	var resent []string
	backend := &fakeBackend{
		verify: verifiedAs("FACULTY"),
		resend: func(token string) error {
			resent = append(resent, token)
			return nil
		},
	}
	fx := newOTPFixture(t, backend, storage.NewMemory())

	require.True(t, fx.timer.Running())
	require.False(t, fx.flow.CanResend())
	require.ErrorIs(t, fx.flow.Resend(context.Background()), flow.ErrResendNotReady)

	expire(fx.timer)
	require.True(t, fx.flow.CanResend())
	require.NoError(t, fx.flow.Resend(context.Background()))
	require.Equal(t, []string{"challenge-1"}, resent)

	require.Equal(t, countdown.State{Remaining: 3}, fx.timer.State())
	require.False(t, fx.flow.CanResend())
}

func TestOTPResendFailure(t *testing.T) {
	t.Parallel()

	t.Run("rejected keeps the countdown expired", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{
			verify: verifiedAs("FACULTY"),
			resend: func(string) error { return apiErr(429, "") },
		}
		fx := newOTPFixture(t, backend, storage.NewMemory())
		expire(fx.timer)

		err := fx.flow.Resend(context.Background())
		var fe *flow.FlowError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, flow.KindRejected, fe.Kind)
		require.Equal(t, flow.MsgResendFailed, fe.Display())
		require.True(t, fx.flow.CanResend())
	})

	t.Run("expired discards the challenge", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{
			verify: verifiedAs("FACULTY"),
			resend: func(string) error { return apiErr(410, "") },
		}
		fx := newOTPFixture(t, backend, storage.NewMemory())
		expire(fx.timer)

		require.True(t, flow.IsKind(fx.flow.Resend(context.Background()), flow.KindExpired))
		_, ok := fx.slot.Peek()
		require.False(t, ok)
	})
}

func TestOTPResendWithoutResender(t *testing.T) {
	t.Parallel()

	fx := newOTPFixture(t, verifyOnly{&fakeBackend{verify: verifiedAs("FACULTY")}}, storage.NewMemory())
	expire(fx.timer)

	require.NoError(t, fx.flow.Resend(context.Background()))
	require.True(t, fx.timer.Running())
}
