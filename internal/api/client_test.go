package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// staticToken satisfies TokenSource for tests.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func testClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken(token), zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Email != "a@b.com" || body.Password != "secret1" {
			t.Errorf("body = %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"_id": "u1", "username": "alice", "email": "a@b.com"},
			"token": "t1",
		})
	})

	resp, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Token != "t1" {
		t.Errorf("token = %q, want t1", resp.Token)
	}
	if resp.User.ID != "u1" || resp.User.Username != "alice" {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestLoginRejectsMissingToken(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"_id": "u1"},
		})
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
}

func TestAuthedCallSendsBearerAndRequestID(t *testing.T) {
	c := testClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID missing")
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})

	if _, err := c.ListChats(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestNoTokenFailsBeforeNetworkIO(t *testing.T) {
	hit := false
	c := testClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	})

	_, err := c.ListChats(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if hit {
		t.Error("server was contacted despite missing token")
	}
}

func TestRequestErrorCarriesServerMessage(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invite already accepted"})
	})

	err := c.AcceptInvite(context.Background(), "inv1")
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want RequestError", err)
	}
	if re.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", re.Status)
	}
	if re.Message != "invite already accepted" {
		t.Errorf("message = %q", re.Message)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, staticToken("tok"), zap.NewNop())
	_, err := c.ListChats(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NetworkError", err)
	}
}

func TestMyInvitesEnvelope(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/invite/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"invites": []map[string]any{
				{"_id": "inv1", "sender": map[string]string{"username": "bob", "email": "b@b.com"}, "status": "pending"},
			},
		})
	})

	invites, err := c.MyInvites(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(invites) != 1 || invites[0].Sender.Username != "bob" {
		t.Errorf("invites = %+v", invites)
	}
}

func TestAcceptInviteBody(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["inviteId"] != "inv1" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.AcceptInvite(context.Background(), "inv1"); err != nil {
		t.Fatal(err)
	}
}

func TestContactDetailsBody(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		var body map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if len(body["contactIds"]) != 2 {
			t.Errorf("contactIds = %v", body["contactIds"])
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "u2", "username": "bob", "email": "b@b.com"},
			{"_id": "u3", "username": "carol", "email": "c@c.com"},
		})
	})

	contacts, err := c.ContactDetails(context.Background(), []string{"u2", "u3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 2 || contacts[1].Username != "carol" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestListChatsRejectsMissingID(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"isGroup": false, "recipients": []string{"u1", "u2"}},
		})
	})

	_, err := c.ListChats(context.Background())
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
}

func TestChatDetailPath(t *testing.T) {
	c := testClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/abc" {
			t.Errorf("path = %q, want /chat/abc", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id": "abc", "isGroup": false, "recipients": []string{"u1", "u2"},
			"unreadCounts": map[string]int{},
		})
	})

	chat, err := c.ChatDetail(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if chat.ID != "abc" {
		t.Errorf("chat = %+v", chat)
	}
}

func TestLogoutSkipsBearerPrecondition(t *testing.T) {
	c := testClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/auth/logout" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	// No token in the session; logout is cookie-authenticated and must
	// still go out.
	if err := c.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
}
