package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the backend is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.Endpoints.Liveness, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health); err != nil {
		return nil, err
	}

	return &health, nil
}
