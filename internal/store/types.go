package store

import "time"

// User is the authenticated identity as returned by the backend, plus the
// bearer token the client holds alongside it. The session snapshot persists
// the whole struct.
type User struct {
	ID       string   `json:"_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Status   string   `json:"status"`
	Contacts []string `json:"contacts,omitempty"`
	Token    string   `json:"token,omitempty"`
}

// Contact is a cached directory entry relevant to the current user.
type Contact struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status,omitempty"`
}

// InviteSender identifies who sent an invite.
type InviteSender struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Invite is a pending contact invitation. Fetched on demand, never persisted.
type Invite struct {
	ID        string       `json:"_id"`
	Sender    InviteSender `json:"sender"`
	CreatedAt time.Time    `json:"createdAt"`
	Status    string       `json:"status"`
}

// Chat is a raw chat record as returned by the backend. UnreadCounts is
// keyed by recipient id, mirroring the server's per-recipient unread
// tracking.
type Chat struct {
	ID           string         `json:"_id"`
	IsGroup      bool           `json:"isGroup"`
	Name         string         `json:"name,omitempty"`
	Recipients   []string       `json:"recipients"`
	UnreadCounts map[string]int `json:"unreadCounts"`
}
