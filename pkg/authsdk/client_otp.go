package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// VerifyOTP submits code with challengeToken as bearer. employeeID is sent
// as a query parameter when not empty.
func (c *Client) VerifyOTP(ctx context.Context, challengeToken, code, employeeID string) (*VerifyResponse, error) {
	q := url.Values{"enteredOtp": {code}}
	if employeeID != "" {
		q.Set("employeeId", employeeID)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.Endpoints.VerifyOTP, q, challengeToken, nil)
	if err != nil {
		return nil, err
	}

	var out VerifyResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, ErrMissingToken
	}

	return &out, nil
}

// ResendOTP asks the backend to deliver a fresh code for the challenge.
func (c *Client) ResendOTP(ctx context.Context, challengeToken string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, c.Endpoints.ResendOTP, nil, challengeToken, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}
