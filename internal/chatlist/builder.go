// Package chatlist derives display-ready chat view models from raw chat
// records and the contacts cache. Everything here is pure: same inputs,
// same output, no state.
package chatlist

import (
	"strings"

	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// ViewModel is the computed, display-oriented representation of a chat.
type ViewModel struct {
	ID          string
	DisplayName string
	IsGroup     bool
	Recipients  []store.Contact
	UnreadCount int
}

// Resolver looks up a contact by id. ok=false for unknown ids; the builder
// degrades instead of failing.
type Resolver func(id string) (store.Contact, bool)

// Build transforms raw chats into view models, preserving input order.
// Group chats display their own name. Direct chats display the counterpart
// resolved through the contacts cache, falling back to the raw recipient id
// when the cache has no entry yet.
func Build(chats []store.Chat, currentUserID string, resolve Resolver) []ViewModel {
	models := make([]ViewModel, 0, len(chats))
	for _, chat := range chats {
		models = append(models, build(chat, currentUserID, resolve))
	}
	return models
}

func build(chat store.Chat, currentUserID string, resolve Resolver) ViewModel {
	vm := ViewModel{ID: chat.ID, IsGroup: chat.IsGroup}

	// Recipient set: everyone but the current user. For direct chats the
	// expected cardinality is exactly one; anything else is a data anomaly
	// and degrades below.
	var others []string
	for _, id := range chat.Recipients {
		if id != currentUserID {
			others = append(others, id)
		}
	}
	for _, id := range others {
		if c, ok := resolve(id); ok {
			vm.Recipients = append(vm.Recipients, c)
		}
	}

	if chat.IsGroup {
		vm.DisplayName = chat.Name
		if vm.DisplayName == "" {
			vm.DisplayName = chat.ID
		}
		return vm
	}

	switch {
	case len(vm.Recipients) > 0:
		vm.DisplayName = vm.Recipients[0].Username
	case len(others) > 0:
		// Unresolved contact: show the raw id rather than nothing.
		vm.DisplayName = others[0]
	default:
		vm.DisplayName = chat.ID
	}

	// Unread resolution mirrors the server's per-recipient tracking: an
	// empty map means zero, otherwise index by the counterpart's id. A
	// recipient set that is not a singleton degrades to zero.
	if len(chat.UnreadCounts) > 0 && len(others) == 1 {
		vm.UnreadCount = chat.UnreadCounts[others[0]]
	}
	return vm
}

// Filter returns the models whose display name contains term,
// case-insensitively, preserving order. An empty term returns the input
// unchanged. (The upstream client matched case-sensitively; corrected here.)
func Filter(models []ViewModel, term string) []ViewModel {
	if term == "" {
		return models
	}
	needle := strings.ToLower(term)
	filtered := make([]ViewModel, 0, len(models))
	for _, vm := range models {
		if strings.Contains(strings.ToLower(vm.DisplayName), needle) {
			filtered = append(filtered, vm)
		}
	}
	return filtered
}
