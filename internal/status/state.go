// Package status tracks the client's coarse runtime state for presentation
// flow. The session store remains the authority on auth; the machine only
// mirrors it so views know which page to show.
package status

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kshzz24/scalable-chat-app/internal/bus"
)

// State represents a client runtime state.
type State string

const (
	Booting        State = "BOOTING"
	LoggedOut      State = "LOGGED_OUT"
	Authenticating State = "AUTHENTICATING"
	Ready          State = "READY"
	Error          State = "ERROR"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Booting:        {LoggedOut, Ready, Error},
	LoggedOut:      {Authenticating, Error},
	Authenticating: {Ready, LoggedOut, Error},
	Ready:          {LoggedOut, Error},
	Error:          {Booting},
}

// Machine tracks and enforces client state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a state machine starting in Booting.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns an error if the
// transition is not allowed.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindStatusChanged,
			Timestamp: time.Now(),
			Payload: StatusChange{
				From: from,
				To:   to,
			},
		})
	}
	return nil
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
