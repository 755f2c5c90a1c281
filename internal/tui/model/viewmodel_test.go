package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kshzz24/scalable-chat-app/internal/api"
	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/contacts"
	"github.com/kshzz24/scalable-chat-app/internal/schema"
	"github.com/kshzz24/scalable-chat-app/internal/session"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"go.uber.org/zap"
)

type fixture struct {
	vm       *ViewModel
	session  *session.Store
	contacts *contacts.Store
}

// newFixture wires a real core (sqlite-backed stores, bus, API client)
// against the given fake backend.
func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	b := bus.New()
	sess, err := session.New(db, b)
	if err != nil {
		t.Fatal(err)
	}
	cts, err := contacts.New(db, b)
	if err != nil {
		t.Fatal(err)
	}

	client := api.New(srv.URL, sess, zap.NewNop())
	return &fixture{
		vm:       NewViewModel(client, sess, cts, b, zap.NewNop()),
		session:  sess,
		contacts: cts,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func backend(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"user": map[string]any{
				"_id": "u1", "username": "alice", "email": "a@b.com",
				"status": "online", "contacts": []string{"u2", "u3"},
			},
			"token": "t1",
		})
	})
	mux.HandleFunc("/user/contact/details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"_id": "u2", "username": "bob", "email": "b@b.com"},
			{"_id": "u3", "username": "carol", "email": "c@c.com"},
		})
	})
	mux.HandleFunc("/chat/all", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{
			{"_id": "c1", "isGroup": false, "recipients": []string{"u1", "u2"}, "unreadCounts": map[string]int{"u2": 2}},
			{"_id": "c2", "isGroup": false, "recipients": []string{"u1", "u3"}, "unreadCounts": map[string]int{}},
		})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestLoginInstallsSessionAndContacts(t *testing.T) {
	f := newFixture(t, backend(t))

	errs, err := f.vm.Login(context.Background(), schema.LoginForm{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) != 0 {
		t.Fatalf("validation errors: %v", errs)
	}

	u := f.session.User()
	if u == nil {
		t.Fatal("session user nil after login")
	}
	if u.Token != "t1" {
		t.Errorf("token = %q, want t1", u.Token)
	}
	if c, ok := f.contacts.ByID("u2"); !ok || c.Username != "bob" {
		t.Errorf("contacts not hydrated: %+v ok=%v", c, ok)
	}
}

func TestLoginValidationShortCircuits(t *testing.T) {
	hit := atomic.Bool{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		hit.Store(true)
	})
	f := newFixture(t, mux)

	errs, err := f.vm.Login(context.Background(), schema.LoginForm{Email: "nope", Password: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if len(errs) == 0 {
		t.Fatal("expected validation errors")
	}
	if hit.Load() {
		t.Error("invalid form reached the network")
	}
}

func TestDerivedChatList(t *testing.T) {
	f := newFixture(t, backend(t))
	ctx := context.Background()

	if _, err := f.vm.Login(ctx, schema.LoginForm{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	if err := f.vm.LoadChats(ctx); err != nil {
		t.Fatal(err)
	}

	models := f.vm.ChatViewModels()
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].DisplayName != "bob" || models[1].DisplayName != "carol" {
		t.Errorf("display names = %q, %q; want bob, carol", models[0].DisplayName, models[1].DisplayName)
	}
	if models[0].UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", models[0].UnreadCount)
	}
	if models[1].UnreadCount != 0 {
		t.Errorf("unread = %d, want 0 for empty map", models[1].UnreadCount)
	}
}

func TestSearchFiltersDerivedList(t *testing.T) {
	f := newFixture(t, backend(t))
	ctx := context.Background()

	if _, err := f.vm.Login(ctx, schema.LoginForm{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	if err := f.vm.LoadChats(ctx); err != nil {
		t.Fatal(err)
	}

	f.vm.SetSearchTerm("CAR")
	models := f.vm.ChatViewModels()
	if len(models) != 1 || models[0].DisplayName != "carol" {
		t.Errorf("filtered = %+v, want carol only", models)
	}

	f.vm.SetSearchTerm("")
	if got := f.vm.ChatViewModels(); len(got) != 2 {
		t.Errorf("empty term = %d models, want 2", len(got))
	}
}

func TestLogoutClearsSessionAndContacts(t *testing.T) {
	f := newFixture(t, backend(t))
	ctx := context.Background()

	if _, err := f.vm.Login(ctx, schema.LoginForm{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	if err := f.vm.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	if f.session.User() != nil {
		t.Error("session user survived logout")
	}
	if f.contacts.Len() != 0 {
		t.Error("contacts cache survived logout")
	}
	if got := f.vm.ChatViewModels(); len(got) != 0 {
		t.Errorf("chat models after logout = %+v", got)
	}
}

func TestAcceptInviteRefetches(t *testing.T) {
	var inviteLists atomic.Int32

	mux := backend(t)
	mux.HandleFunc("/user/invite/me", func(w http.ResponseWriter, _ *http.Request) {
		inviteLists.Add(1)
		writeJSON(t, w, map[string]any{"invites": []any{}})
	})
	mux.HandleFunc("/user/invite/accept", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/user/details", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{
			"_id": "u1", "username": "alice", "email": "a@b.com",
			"status": "online", "contacts": []string{"u2", "u3"},
		})
	})

	f := newFixture(t, mux)
	ctx := context.Background()
	if _, err := f.vm.Login(ctx, schema.LoginForm{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	if err := f.vm.AcceptInvite(ctx, "inv1"); err != nil {
		t.Fatal(err)
	}
	if inviteLists.Load() != 1 {
		t.Errorf("invite refetches = %d, want 1", inviteLists.Load())
	}
	// The refreshed profile keeps the token it never receives over the wire.
	if u := f.session.User(); u == nil || u.Token != "t1" {
		t.Errorf("user after refresh = %+v, want token t1", u)
	}
}

func TestFailedMutationLeavesStateIntact(t *testing.T) {
	mux := backend(t)
	mux.HandleFunc("/user/invite/accept", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"already accepted"}`))
	})

	f := newFixture(t, mux)
	ctx := context.Background()
	if _, err := f.vm.Login(ctx, schema.LoginForm{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}
	before := f.session.User()

	if err := f.vm.AcceptInvite(ctx, "inv1"); err == nil {
		t.Fatal("expected error from failed accept")
	}
	after := f.session.User()
	if after == nil || after.Token != before.Token {
		t.Error("failed mutation disturbed session state")
	}
}
