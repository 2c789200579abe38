package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is applied to the HTTP client created by NewClient.
const DefaultTimeout = 10 * time.Second

// Endpoints holds the request paths for each backend call.
type Endpoints struct {
	Login       string
	VerifyOTP   string
	ResendOTP   string
	SetPassword string
	Liveness    string
}

// DefaultEndpoints returns the paths served by the LeaveDesk backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:       "/login",
		VerifyOTP:   "/verify-otp",
		ResendOTP:   "/resend-otp",
		SetPassword: "/api/auth/set-password",
		Liveness:    "/livez",
	}
}

// Client talks to the authentication backend. It holds no credentials of
// its own; every call takes what it needs as arguments.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Endpoints  Endpoints
}

// NewClient creates a client with default endpoints and timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Endpoints: DefaultEndpoints(),
	}
}
