// ABOUTME: Login call exchanging a 4-digit PIN for an appliance session cookie
// ABOUTME: A rejected PIN is a result, not an error

package api

import (
	"context"
	"errors"
	"net/http"
)

type loginRequest struct {
	PIN string `json:"pin"`
}

type loginResponse struct {
	Success bool `json:"success"`
}

// Login submits pin. It returns false with a nil error when the appliance
// rejects the PIN, and a non-nil error only for transport or protocol failures.
func (c *Client) Login(ctx context.Context, pin string) (bool, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "api/login", nil, loginRequest{PIN: pin}, &resp)
	if errors.Is(err, ErrUnauthenticated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	c.logger.Info("login attempt", "success", resp.Success)
	return resp.Success, nil
}
