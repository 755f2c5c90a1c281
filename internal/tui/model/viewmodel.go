package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kshzz24/scalable-chat-app/internal/api"
	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/chatlist"
	"github.com/kshzz24/scalable-chat-app/internal/contacts"
	"github.com/kshzz24/scalable-chat-app/internal/flight"
	"github.com/kshzz24/scalable-chat-app/internal/schema"
	"github.com/kshzz24/scalable-chat-app/internal/session"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"go.uber.org/zap"
)

// Fetch keys for the in-flight group. Mutations invalidate these.
const (
	keyChats    = "chats"
	keyInvites  = "invites"
	keyUsers    = "users"
	keyContacts = "contacts"
)

// ViewModel caches fetched server data, derives the chat list, and signals
// UI refreshes. All fetches run through the flight group, so concurrent
// views share one request per resource and an abandoned view never writes
// into shared state.
type ViewModel struct {
	mu sync.RWMutex

	api      *api.Client
	session  *session.Store
	contacts *contacts.Store
	bus      *bus.Bus
	logger   *zap.Logger
	flights  flight.Group

	chats      []store.Chat
	invites    []store.Invite
	users      []store.User
	searchTerm string

	Flash     Flash
	refreshCh chan struct{}
	cancel    context.CancelFunc
}

// NewViewModel creates a view model over the client core.
func NewViewModel(c *api.Client, sess *session.Store, cts *contacts.Store, b *bus.Bus, logger *zap.Logger) *ViewModel {
	return &ViewModel{
		api:       c,
		session:   sess,
		contacts:  cts,
		bus:       b,
		logger:    logger,
		refreshCh: make(chan struct{}, 1),
	}
}

// Start subscribes to store and status events so any mutation anywhere in
// the core schedules a redraw.
func (vm *ViewModel) Start(ctx context.Context) {
	ctx, vm.cancel = context.WithCancel(ctx)
	ch, unsub := vm.bus.Subscribe("", 256)

	go func() {
		defer unsub()
		for {
			select {
			case <-ch:
				vm.signalRefresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the event loop.
func (vm *ViewModel) Stop() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// User returns the current identity, nil when logged out.
func (vm *ViewModel) User() *store.User {
	return vm.session.User()
}

// Login validates the form, authenticates, installs the session, and
// hydrates the contacts cache so the chat list can resolve names.
func (vm *ViewModel) Login(ctx context.Context, form schema.LoginForm) (schema.Errors, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return errs, nil
	}

	resp, err := vm.api.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		return nil, err
	}

	// The token arrives beside the user; merge before the whole-object set.
	u := resp.User
	u.Token = resp.Token
	if err := vm.session.SetUser(u); err != nil {
		return nil, err
	}

	if err := vm.LoadContacts(ctx); err != nil {
		// Non-fatal: names degrade to ids until the next fetch.
		vm.logger.Warn("contact hydration after login failed", zap.Error(err))
	}
	vm.Flash.Set("Logged in as "+u.Username, 3*time.Second)
	return nil, nil
}

// Register validates the form and creates the account. The caller returns
// to the login page on success; the API does not log the new account in.
func (vm *ViewModel) Register(ctx context.Context, form schema.RegisterForm) (schema.Errors, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return errs, nil
	}
	_, err := vm.api.Register(ctx, api.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return nil, err
	}
	vm.Flash.Set("Account created, please log in", 3*time.Second)
	return nil, nil
}

// Logout clears the session and the contacts cache. The server call is
// best effort; local state is cleared regardless so the client never stays
// logged in against a dead session.
func (vm *ViewModel) Logout(ctx context.Context) error {
	if err := vm.api.Logout(ctx); err != nil {
		vm.logger.Warn("server logout failed", zap.Error(err))
	}
	if err := vm.session.Clear(); err != nil {
		return err
	}
	if err := vm.contacts.Reset(); err != nil {
		return err
	}

	vm.mu.Lock()
	vm.chats = nil
	vm.invites = nil
	vm.users = nil
	vm.searchTerm = ""
	vm.mu.Unlock()

	for _, key := range []string{keyChats, keyInvites, keyUsers, keyContacts} {
		vm.flights.Forget(key)
	}
	vm.Flash.Set("Logged out", 3*time.Second)
	return nil
}

// LoadChats fetches the raw chat list.
func (vm *ViewModel) LoadChats(ctx context.Context) error {
	v, err := vm.flights.Do(ctx, keyChats, func(runCtx context.Context) (any, error) {
		return vm.api.ListChats(runCtx)
	})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.chats = v.([]store.Chat)
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadInvites fetches the pending invite inbox.
func (vm *ViewModel) LoadInvites(ctx context.Context) error {
	v, err := vm.flights.Do(ctx, keyInvites, func(runCtx context.Context) (any, error) {
		return vm.api.MyInvites(runCtx)
	})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.invites = v.([]store.Invite)
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadUsers fetches the invitable user directory.
func (vm *ViewModel) LoadUsers(ctx context.Context) error {
	v, err := vm.flights.Do(ctx, keyUsers, func(runCtx context.Context) (any, error) {
		return vm.api.ListUsers(runCtx)
	})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.users = v.([]store.User)
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadContacts resolves the session user's contact ids and replaces the
// contacts cache wholesale.
func (vm *ViewModel) LoadContacts(ctx context.Context) error {
	u := vm.session.User()
	if u == nil {
		return api.ErrNoToken
	}
	if len(u.Contacts) == 0 {
		return vm.contacts.Reset()
	}
	v, err := vm.flights.Do(ctx, keyContacts, func(runCtx context.Context) (any, error) {
		return vm.api.ContactDetails(runCtx, u.Contacts)
	})
	if err != nil {
		return err
	}
	return vm.contacts.Replace(v.([]store.Contact))
}

// RefreshUser refetches the profile and merges it under the existing
// token. The store replaces whole objects, so the token must be carried
// over explicitly.
func (vm *ViewModel) RefreshUser(ctx context.Context) error {
	current := vm.session.User()
	if current == nil {
		return api.ErrNoToken
	}
	fresh, err := vm.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fresh.Token = current.Token
	return vm.session.SetUser(*fresh)
}

// AcceptInvite accepts an invite and refetches everything the acceptance
// touches: the inbox, the profile (its contact ids grew), and the contact
// directory.
func (vm *ViewModel) AcceptInvite(ctx context.Context, inviteID string) error {
	if err := vm.api.AcceptInvite(ctx, inviteID); err != nil {
		return err
	}
	vm.publishMutation(bus.KindInvitesMutated)
	vm.flights.Forget(keyInvites)
	vm.flights.Forget(keyContacts)

	if err := vm.LoadInvites(ctx); err != nil {
		vm.logger.Warn("invite refetch after accept failed", zap.Error(err))
	}
	if err := vm.RefreshUser(ctx); err != nil {
		vm.logger.Warn("profile refetch after accept failed", zap.Error(err))
	} else if err := vm.LoadContacts(ctx); err != nil {
		vm.logger.Warn("contact refetch after accept failed", zap.Error(err))
	}
	vm.Flash.Set("Invite accepted", 3*time.Second)
	return nil
}

// RejectInvite rejects an invite and refetches the inbox.
func (vm *ViewModel) RejectInvite(ctx context.Context, inviteID string) error {
	if err := vm.api.RejectInvite(ctx, inviteID); err != nil {
		return err
	}
	vm.publishMutation(bus.KindInvitesMutated)
	vm.flights.Forget(keyInvites)
	if err := vm.LoadInvites(ctx); err != nil {
		vm.logger.Warn("invite refetch after reject failed", zap.Error(err))
	}
	vm.Flash.Set("Invite rejected", 3*time.Second)
	return nil
}

// SendInvites sends invitations to the selected users and refetches the
// directory.
func (vm *ViewModel) SendInvites(ctx context.Context, receiverIDs []string) error {
	if len(receiverIDs) == 0 {
		return errors.New("select at least one user")
	}
	if err := vm.api.SendInvites(ctx, receiverIDs); err != nil {
		return err
	}
	vm.publishMutation(bus.KindUsersMutated)
	vm.flights.Forget(keyUsers)
	if err := vm.LoadUsers(ctx); err != nil {
		vm.logger.Warn("user refetch after invite failed", zap.Error(err))
	}
	vm.Flash.Set(fmt.Sprintf("Sent %d invite(s)", len(receiverIDs)), 3*time.Second)
	return nil
}

// CreateChat validates the selection, creates the chat, and refetches the
// chat list.
func (vm *ViewModel) CreateChat(ctx context.Context, isGroup bool, recipients []string, name string) error {
	if isGroup {
		if len(recipients) < 2 {
			return errors.New("select at least 2 users for a group chat")
		}
		if name == "" {
			return errors.New("group chats need a name")
		}
	} else {
		if len(recipients) != 1 {
			return errors.New("select exactly one contact")
		}
		name = ""
	}

	if err := vm.api.CreateChat(ctx, api.CreateChatRequest{
		IsGroup:    isGroup,
		Recipients: recipients,
		Name:       name,
	}); err != nil {
		return err
	}
	vm.publishMutation(bus.KindChatsMutated)
	vm.flights.Forget(keyChats)
	if err := vm.LoadChats(ctx); err != nil {
		vm.logger.Warn("chat refetch after create failed", zap.Error(err))
	}
	vm.Flash.Set("Chat created", 3*time.Second)
	return nil
}

// SetSearchTerm updates the chat list filter.
func (vm *ViewModel) SetSearchTerm(term string) {
	vm.mu.Lock()
	vm.searchTerm = term
	vm.mu.Unlock()
	vm.signalRefresh()
}

// SearchTerm returns the current chat list filter.
func (vm *ViewModel) SearchTerm() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.searchTerm
}

// ChatViewModels derives the display-ready, filtered chat list from the
// raw chats, the contacts cache, and the search term.
func (vm *ViewModel) ChatViewModels() []chatlist.ViewModel {
	u := vm.session.User()
	if u == nil {
		return nil
	}
	vm.mu.RLock()
	chats := vm.chats
	term := vm.searchTerm
	vm.mu.RUnlock()

	models := chatlist.Build(chats, u.ID, vm.contacts.ByID)
	return chatlist.Filter(models, term)
}

// Invites returns a snapshot of the pending invite inbox.
func (vm *ViewModel) Invites() []store.Invite {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]store.Invite, len(vm.invites))
	copy(out, vm.invites)
	return out
}

// Users returns a snapshot of the invitable user directory.
func (vm *ViewModel) Users() []store.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	out := make([]store.User, len(vm.users))
	copy(out, vm.users)
	return out
}

// Contacts returns a snapshot of the contact directory.
func (vm *ViewModel) Contacts() []store.Contact {
	return vm.contacts.All()
}

func (vm *ViewModel) publishMutation(kind string) {
	vm.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now()})
}
