// Package session holds the authenticated identity for the active profile.
// The store is the single source of truth for auth state: a nil user means
// unauthenticated, and the access gates read nothing else.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// Store is the session state container. Every mutation is written through
// to the profile DB before the in-memory state changes, so a crash never
// leaves memory ahead of disk.
type Store struct {
	mu   sync.RWMutex
	db   *store.DB
	bus  *bus.Bus
	user *store.User
}

// New creates a session store rehydrated from the profile DB. State starts
// nil when no snapshot exists.
func New(db *store.DB, b *bus.Bus) (*Store, error) {
	u, err := db.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("rehydrate session: %w", err)
	}
	return &Store{db: db, bus: b, user: u}, nil
}

// User returns the current identity, or nil when unauthenticated. The
// returned value is a copy; callers patching fields must SetUser the whole
// object back (the store replaces, it never merges).
func (s *Store) User() *store.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token of the current identity, or empty when
// unauthenticated. Satisfies api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// SetUser replaces the whole identity atomically and persists it. On
// persistence failure the previous state is kept and the error returned.
func (s *Store) SetUser(u store.User) error {
	s.mu.Lock()
	if err := s.db.SaveSession(&u); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = &u
	s.mu.Unlock()

	s.publish()
	return nil
}

// Clear resets the identity to nil and removes the persisted snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := s.db.ClearSession(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear session: %w", err)
	}
	s.user = nil
	s.mu.Unlock()

	s.publish()
	return nil
}

func (s *Store) publish() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      bus.KindSessionChanged,
		Timestamp: time.Now(),
	})
}
