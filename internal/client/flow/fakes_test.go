package flow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/leavedesk/internal/client/session"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

// fakeBackend answers flow calls from function fields. A non-nil gate
// blocks each call until the test sends on it.
type fakeBackend struct {
	mu sync.Mutex

	login    func(authsdk.LoginRequest) (*authsdk.LoginResponse, error)
	verify   func(token, code, employeeID string) (*authsdk.VerifyResponse, error)
	resend   func(token string) error
	setPass  func(authsdk.SetPasswordRequest) (string, error)
	gate     chan struct{}
	entered  chan struct{}
	calls    int
	lastCode string
}

func (f *fakeBackend) wait(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) Login(ctx context.Context, req authsdk.LoginRequest) (*authsdk.LoginResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.login(req)
}

func (f *fakeBackend) VerifyOTP(ctx context.Context, token, code, employeeID string) (*authsdk.VerifyResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCode = code
	f.mu.Unlock()
	return f.verify(token, code, employeeID)
}

func (f *fakeBackend) ResendOTP(ctx context.Context, token string) error {
	if f.resend == nil {
		return nil
	}
	return f.resend(token)
}

func (f *fakeBackend) SetPassword(ctx context.Context, req authsdk.SetPasswordRequest) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.setPass(req)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// verifyOnly hides ResendOTP so the flow runs without a resender.
type verifyOnly struct{ b *fakeBackend }

func (v verifyOnly) VerifyOTP(ctx context.Context, token, code, employeeID string) (*authsdk.VerifyResponse, error) {
	return v.b.VerifyOTP(ctx, token, code, employeeID)
}

type failingStorage struct{ *storage.Memory }

func (failingStorage) Set(context.Context, string, string, string) error {
	return errors.New("read-only filesystem")
}

func newSessionStore(t *testing.T, s storage.Storage) *session.Store {
	t.Helper()
	return session.New(storage.NewBucket(s, "tab-test"), slogx.Discard())
}

func apiErr(status int, msg string) error {
	return &authsdk.APIError{StatusCode: status, Message: msg}
}
