package authsdk

import (
	"context"
	"net/http"
)

// SetPassword stores a new password for req.EmpID and returns the server's
// confirmation message, which may be empty.
func (c *Client) SetPassword(ctx context.Context, req SetPasswordRequest) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.Endpoints.SetPassword, nil, "", req)
	if err != nil {
		return "", err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
