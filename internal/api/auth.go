package api

import (
	"context"
	"net/http"

	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the authenticated identity and its bearer token.
type LoginResponse struct {
	User  store.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates a new account. Unauthenticated.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*store.User, error) {
	var resp struct {
		User store.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates with email and password. Unauthenticated; the caller
// merges the returned token into the user before handing it to the session
// store.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp, false); err != nil {
		return nil, err
	}
	if resp.User.ID == "" {
		return nil, &SchemaError{Endpoint: "/auth/login", Reason: "user missing _id"}
	}
	if resp.Token == "" {
		return nil, &SchemaError{Endpoint: "/auth/login", Reason: "missing token"}
	}
	return &resp, nil
}

// Logout asks the server to clear its session. Cookie-authenticated, so no
// bearer precondition applies; the jar carries the cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/logout", nil, nil, false)
}
