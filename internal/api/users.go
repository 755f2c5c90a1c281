package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// ListUsers returns the directory of users available to invite.
func (c *Client) ListUsers(ctx context.Context) ([]store.User, error) {
	var users []store.User
	if err := c.do(ctx, http.MethodGet, "/user/list", nil, &users, true); err != nil {
		return nil, err
	}
	for i, u := range users {
		if u.ID == "" {
			return nil, &SchemaError{Endpoint: "/user/list", Reason: fmt.Sprintf("user %d missing _id", i)}
		}
	}
	return users, nil
}

// CurrentUser returns the authenticated user's profile. The response does
// not carry the token; callers patching the session must read-modify-write
// the full object.
func (c *Client) CurrentUser(ctx context.Context) (*store.User, error) {
	var u store.User
	if err := c.do(ctx, http.MethodGet, "/user/details", nil, &u, true); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, &SchemaError{Endpoint: "/user/details", Reason: "missing _id"}
	}
	return &u, nil
}

// ContactDetails resolves contact ids into directory entries.
func (c *Client) ContactDetails(ctx context.Context, contactIDs []string) ([]store.Contact, error) {
	req := struct {
		ContactIDs []string `json:"contactIds"`
	}{ContactIDs: contactIDs}

	var contacts []store.Contact
	if err := c.do(ctx, http.MethodPost, "/user/contact/details", req, &contacts, true); err != nil {
		return nil, err
	}
	for i, ct := range contacts {
		if ct.ID == "" {
			return nil, &SchemaError{Endpoint: "/user/contact/details", Reason: fmt.Sprintf("contact %d missing _id", i)}
		}
	}
	return contacts, nil
}
