// Package contacts caches the current user's resolved contact directory.
// The cache is replaced wholesale on each directory fetch; stale entries
// are acceptable until the next fetch.
package contacts

import (
	"fmt"
	"sync"
	"time"

	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// Store is the contacts state container with an id index for lookups.
// Persisted under its own table, separate lifecycle from the session
// snapshot; the app calls Reset on logout so the cache cannot outlive the
// account it belongs to.
type Store struct {
	mu    sync.RWMutex
	db    *store.DB
	bus   *bus.Bus
	list  []store.Contact
	index map[string]store.Contact
}

// New creates a contacts store rehydrated from the profile DB.
func New(db *store.DB, b *bus.Bus) (*Store, error) {
	list, err := db.ListContacts()
	if err != nil {
		return nil, fmt.Errorf("rehydrate contacts: %w", err)
	}
	s := &Store{db: db, bus: b}
	s.install(list)
	return s, nil
}

// All returns a snapshot of the cached contacts in storage order.
func (s *Store) All() []store.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Contact, len(s.list))
	copy(out, s.list)
	return out
}

// ByID looks up a contact by id. Unknown ids return ok=false; chat
// recipients may reference contacts not yet fetched and the caller is
// expected to degrade, not fail.
func (s *Store) ByID(id string) (store.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.index[id]
	return c, ok
}

// Len returns the number of cached contacts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Replace swaps the cache wholesale and persists it in one transaction.
// On persistence failure the previous state is kept.
func (s *Store) Replace(list []store.Contact) error {
	s.mu.Lock()
	if err := s.db.ReplaceContacts(list); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist contacts: %w", err)
	}
	s.install(list)
	s.mu.Unlock()

	s.publish()
	return nil
}

// Reset clears the cache to empty.
func (s *Store) Reset() error {
	return s.Replace(nil)
}

// install rebuilds the list and index. Caller holds the write lock (or is
// the constructor).
func (s *Store) install(list []store.Contact) {
	s.list = make([]store.Contact, len(list))
	copy(s.list, list)
	s.index = make(map[string]store.Contact, len(list))
	for _, c := range list {
		s.index[c.ID] = c
	}
}

func (s *Store) publish() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{
		Kind:      bus.KindContactsChanged,
		Timestamp: time.Now(),
	})
}
