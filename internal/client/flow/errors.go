package flow

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
)

// User facing messages.
const (
	MsgCredentialsRequired = "Mobile number and password are required"
	MsgLoginFailed         = "Login failed"
	MsgIncompleteOTP       = "Please enter complete OTP"
	MsgSessionExpired      = "OTP session expired. Please login again."
	MsgInvalidOTP          = "Invalid OTP"
	MsgResendFailed        = "Unable to resend OTP"
	MsgUnreachable         = "Unable to reach the server. Please try again."
	MsgUnexpectedResponse  = "Unexpected response from server"

	MsgFieldsRequired   = "All fields are required"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordMismatch = "Passwords do not match"
	MsgSetPasswordFail  = "Unable to set password"
	MsgPasswordSet      = "Password set successfully!"
)

var (
	// ErrBusy is returned when a request of the same flow is in flight.
	ErrBusy = errors.New("flow: request already in progress")
	// ErrClosed is returned once the flow's view has gone away.
	ErrClosed = errors.New("flow: closed")
	// ErrResendNotReady is returned before the resend countdown expires.
	ErrResendNotReady = errors.New("flow: resend not available yet")
)

// ValidationError is a local input problem; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Kind int

const (
	// KindRejected: the backend refused the input. Retry is possible.
	KindRejected Kind = iota + 1
	// KindExpired: the challenge is gone; start over from login.
	KindExpired
	// KindTransport: no usable answer from the backend.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindExpired:
		return "expired"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// FlowError is a failed exchange with the backend.
type FlowError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }

// Display is the message to show the user.
func (e *FlowError) Display() string { return e.Message }

// IsKind reports whether err is a *FlowError of kind k.
func IsKind(err error, k Kind) bool {
	var fe *FlowError
	return errors.As(err, &fe) && fe.Kind == k
}

// classify turns an SDK error into a FlowError. Expiry is only considered
// when the call was made with a challenge token.
func classify(err error, fallback string, withChallenge bool) *FlowError {
	var apiErr *authsdk.APIError
	switch {
	case errors.As(err, &apiErr):
		if withChallenge && apiErr.Expired() {
			return &FlowError{Kind: KindExpired, Message: MsgSessionExpired, Err: err}
		}
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return &FlowError{Kind: KindRejected, Message: msg, Err: err}
	case errors.Is(err, authsdk.ErrMissingToken):
		return &FlowError{Kind: KindTransport, Message: MsgUnexpectedResponse, Err: err}
	default:
		return &FlowError{Kind: KindTransport, Message: MsgUnreachable, Err: err}
	}
}
