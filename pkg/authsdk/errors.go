package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingToken is returned when a success response lacks the token the
// call is supposed to produce.
var ErrMissingToken = errors.New("response did not include a token")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Expired reports whether the response means the challenge is no longer
// usable: any 410, or a 401/440 whose message mentions expiry.
func (e *APIError) Expired() bool {
	switch e.StatusCode {
	case http.StatusGone:
		return true
	case http.StatusUnauthorized, 440:
		return strings.Contains(strings.ToLower(e.Message), "expired")
	default:
		return false
	}
}

// IsExpired reports whether err is an *APIError that signals an expired
// challenge.
func IsExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Expired()
}

// parseErrorResponse prefers {"message"}, then the OAuth style
// {"error","error_description"}, then the status text.
func parseErrorResponse(status int, body []byte) error {
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{StatusCode: status, Message: msg.Message}
	}

	var oauth struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &oauth); err == nil {
		if oauth.ErrorDescription != "" {
			return &APIError{StatusCode: status, Message: oauth.ErrorDescription}
		}
		if oauth.Error != "" {
			return &APIError{StatusCode: status, Message: oauth.Error}
		}
	}

	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
