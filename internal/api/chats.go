package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// CreateChatRequest is the body for POST /chat/create. Name applies to
// group chats only.
type CreateChatRequest struct {
	IsGroup    bool     `json:"isGroup"`
	Recipients []string `json:"recipients"`
	Name       string   `json:"name,omitempty"`
}

// CreateChat creates a direct or group chat. Mutating.
func (c *Client) CreateChat(ctx context.Context, req CreateChatRequest) error {
	return c.do(ctx, http.MethodPost, "/chat/create", req, nil, true)
}

// ListChats returns all chats for the current user in server order.
func (c *Client) ListChats(ctx context.Context) ([]store.Chat, error) {
	var chats []store.Chat
	if err := c.do(ctx, http.MethodGet, "/chat/all", nil, &chats, true); err != nil {
		return nil, err
	}
	for i, ch := range chats {
		if ch.ID == "" {
			return nil, &SchemaError{Endpoint: "/chat/all", Reason: fmt.Sprintf("chat %d missing _id", i)}
		}
	}
	return chats, nil
}

// ChatDetail returns a single chat by id.
func (c *Client) ChatDetail(ctx context.Context, chatID string) (*store.Chat, error) {
	var chat store.Chat
	if err := c.do(ctx, http.MethodGet, "/chat/"+chatID, nil, &chat, true); err != nil {
		return nil, err
	}
	if chat.ID == "" {
		return nil, &SchemaError{Endpoint: "/chat/{id}", Reason: "missing _id"}
	}
	return &chat, nil
}
