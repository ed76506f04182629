package api

import (
	"context"
	"net/http"

	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

// LoginResponse carries the access token minted at login.
type LoginResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	ErrMsg      string `json:"err_msg,omitempty"`
}

// Login exchanges credentials for a session token. The token feeds the
// session bootstrap; the storefront itself never stores credentials.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return LoginResponse{}, err
	}
	if !resp.Success {
		msg := resp.ErrMsg
		if msg == "" {
			msg = "login rejected"
		}
		return LoginResponse{}, pkgerrors.New(pkgerrors.CodeUnauthenticated, msg)
	}
	return resp, nil
}
