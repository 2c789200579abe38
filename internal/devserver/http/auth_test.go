package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/app"
	"github.com/aussiebroadwan/leavedesk/internal/devserver/service"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

func newServer(t *testing.T, mutate func(*app.Config)) (*authsdk.Client, *service.MemoryNotifier) {
	t.Helper()

	cfg := app.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	notifier := &service.MemoryNotifier{}
	application, err := app.NewWithLogger(cfg, slogx.Discard(), notifier)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL), notifier
}

func requireAPIError(t *testing.T, err error, status int, msg string) *authsdk.APIError {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	if msg != "" {
		require.Equal(t, msg, apiErr.Message)
	}
	return apiErr
}

func TestSignInFlow(t *testing.T) {
	t.Parallel()

	client, notifier := newServer(t, nil)
	ctx := context.Background()

	login, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210", Password: "faculty123"})
	require.NoError(t, err)
	require.NotEmpty(t, login.ChallengeToken)
	require.Equal(t, "EMP001", login.SubjectID)

	code, ok := notifier.Last("EMP001")
	require.True(t, ok)

	verified, err := client.VerifyOTP(ctx, login.ChallengeToken, code, login.SubjectID)
	require.NoError(t, err)
	require.NotEmpty(t, verified.Token)
	require.Equal(t, "FACULTY", verified.Role)
	require.Equal(t, "EMP001", verified.EmployeeID)
	require.Equal(t, "ADM1", verified.AdminID)
	require.False(t, verified.FirstLogin)

	exp, ok, err := authsdk.TokenExpiry(verified.Token)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, exp.After(time.Now()))

	// The session token is not a challenge token.
	_, err = client.VerifyOTP(ctx, verified.Token, code, "")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid token")
}

func TestLoginErrors(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, nil)
	ctx := context.Background()

	_, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210", Password: "nope"})
	requireAPIError(t, err, http.StatusUnauthorized, "Invalid mobile number or password")

	_, err = client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210"})
	requireAPIError(t, err, http.StatusBadRequest, "Mobile number and password are required")

	_, err = client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210", Password: "faculty123", EmployeeID: "SA001"})
	requireAPIError(t, err, http.StatusUnauthorized, "")
}

func TestLoginRateLimited(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, nil)
	ctx := context.Background()

	var last error
	for range 10 {
		_, last = client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9000000001", Password: "bad"})
	}
	requireAPIError(t, last, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
}

func TestVerifyErrors(t *testing.T) {
	t.Parallel()

	client, notifier := newServer(t, nil)
	ctx := context.Background()

	_, err := client.VerifyOTP(ctx, "not-a-jwt", "123456", "")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid token")

	login, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210", Password: "faculty123"})
	require.NoError(t, err)
	code, _ := notifier.Last("EMP001")
	bad := "000000"
	if code == bad {
		bad = "111111"
	}

	for i := 1; i < service.MaxOTPAttempts; i++ {
		_, err = client.VerifyOTP(ctx, login.ChallengeToken, bad, "")
		apiErr := requireAPIError(t, err, http.StatusUnauthorized, "Invalid OTP")
		require.False(t, apiErr.Expired())
	}

	_, err = client.VerifyOTP(ctx, login.ChallengeToken, bad, "")
	requireAPIError(t, err, http.StatusGone, "")
	require.True(t, authsdk.IsExpired(err))

	_, err = client.VerifyOTP(ctx, login.ChallengeToken, code, "")
	requireAPIError(t, err, http.StatusUnauthorized, "OTP session expired")
	require.True(t, authsdk.IsExpired(err))
}

func TestExpiredChallengeToken(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, func(c *app.Config) { c.ChallengeTTL = time.Nanosecond })
	ctx := context.Background()

	login, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543210", Password: "faculty123"})
	require.NoError(t, err)

	_, err = client.VerifyOTP(ctx, login.ChallengeToken, "123456", "")
	require.True(t, authsdk.IsExpired(err), "%v", err)

	require.True(t, authsdk.IsExpired(client.ResendOTP(ctx, login.ChallengeToken)))
}

func TestResend(t *testing.T) {
	t.Parallel()

	client, notifier := newServer(t, func(c *app.Config) { c.FixedOTP = true })
	ctx := context.Background()

	login, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9000000002", Password: "admin1234"})
	require.NoError(t, err)
	require.NoError(t, client.ResendOTP(ctx, login.ChallengeToken))

	code, ok := notifier.Last("ADM1")
	require.True(t, ok)
	require.Equal(t, app.FixedOTPCode, code)

	verified, err := client.VerifyOTP(ctx, login.ChallengeToken, code, "")
	require.NoError(t, err)
	require.Equal(t, "ADMIN", verified.Role)
	require.Equal(t, "SA001", verified.SuperAdminID)
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, func(c *app.Config) { c.FixedOTP = true })
	ctx := context.Background()

	login, err := client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543211", Password: "welcome123"})
	require.NoError(t, err)
	verified, err := client.VerifyOTP(ctx, login.ChallengeToken, app.FixedOTPCode, "")
	require.NoError(t, err)
	require.True(t, verified.FirstLogin)

	_, err = client.SetPassword(ctx, authsdk.SetPasswordRequest{EmpID: "EMP002", Password: "short"})
	requireAPIError(t, err, http.StatusBadRequest, "Password must be at least 8 characters")

	msg, err := client.SetPassword(ctx, authsdk.SetPasswordRequest{EmpID: "EMP002", Password: "BrandNew123"})
	require.NoError(t, err)
	require.Equal(t, "Password set successfully!", msg)

	_, err = client.SetPassword(ctx, authsdk.SetPasswordRequest{EmpID: "EMP002", Password: "Another123"})
	requireAPIError(t, err, http.StatusConflict, "")

	_, err = client.Login(ctx, authsdk.LoginRequest{MobileNumber: "9876543211", Password: "BrandNew123"})
	require.NoError(t, err)
}

func TestLivez(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, nil)

	health, err := client.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Version)
	require.NotEmpty(t, health.Uptime)
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()

	client, _ := newServer(t, nil)

	resp, err := http.Post(client.BaseURL+"/login", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
