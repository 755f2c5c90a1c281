package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// SendInvites sends contact invitations to the given users. Mutating: the
// caller must not retry automatically.
func (c *Client) SendInvites(ctx context.Context, receiverIDs []string) error {
	req := struct {
		ReceiverIDs []string `json:"receiverIds"`
	}{ReceiverIDs: receiverIDs}
	return c.do(ctx, http.MethodPost, "/user/invite/send", req, nil, true)
}

// MyInvites returns the pending invites addressed to the current user.
func (c *Client) MyInvites(ctx context.Context) ([]store.Invite, error) {
	var resp struct {
		Invites []store.Invite `json:"invites"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/invite/me", nil, &resp, true); err != nil {
		return nil, err
	}
	for i, inv := range resp.Invites {
		if inv.ID == "" {
			return nil, &SchemaError{Endpoint: "/user/invite/me", Reason: fmt.Sprintf("invite %d missing _id", i)}
		}
	}
	return resp.Invites, nil
}

// AcceptInvite accepts a pending invite. Mutating; removal is
// server-authoritative, callers refetch rather than patching locally.
func (c *Client) AcceptInvite(ctx context.Context, inviteID string) error {
	req := struct {
		InviteID string `json:"inviteId"`
	}{InviteID: inviteID}
	return c.do(ctx, http.MethodPost, "/user/invite/accept", req, nil, true)
}

// RejectInvite rejects a pending invite. Mutating.
func (c *Client) RejectInvite(ctx context.Context, inviteID string) error {
	req := struct {
		InviteID string `json:"inviteId"`
	}{InviteID: inviteID}
	return c.do(ctx, http.MethodPost, "/user/invite/reject", req, nil, true)
}
