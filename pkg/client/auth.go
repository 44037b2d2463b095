package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	User string `json:"user"`
}

// RegisterResponse represents a registration response
type RegisterResponse struct {
	Message string `json:"message"`
}

// Login authenticates with username and password
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}

	var resp LoginResponse
	if err := c.doRequest(ctx, "POST", "/api/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doRequest(ctx, "POST", "/api/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SocialLoginURL returns the backend endpoint that redirects to the given
// identity provider. token defeats cached redirects and must differ per attempt.
func (c *Client) SocialLoginURL(provider string, token int64) string {
	q := url.Values{}
	q.Set("ts", strconv.FormatInt(token, 10))
	return fmt.Sprintf("%s/api/auth/%s?%s", c.socialBaseURL, url.PathEscape(provider), q.Encode())
}
