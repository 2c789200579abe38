package authsdk

import (
	"context"
	"net/http"
)

// Login submits credentials and returns the challenge for the OTP step.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.Endpoints.Login, nil, "", req)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.ChallengeToken == "" {
		return nil, ErrMissingToken
	}

	return &out, nil
}
