package bus

import "time"

// Event kinds published by the client core. Subscribers filter by prefix,
// so "session." matches every session event.
const (
	KindSessionChanged  = "session.changed"
	KindContactsChanged = "contacts.changed"
	KindStatusChanged   = "app.status_changed"

	// Mutation kinds drive fetch invalidation: a successful server-side
	// mutation publishes one of these and the view model refetches the
	// affected resources.
	KindInvitesMutated = "mutation.invites"
	KindChatsMutated   = "mutation.chats"
	KindUsersMutated   = "mutation.users"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
