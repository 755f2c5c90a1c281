package contacts

import (
	"path/filepath"
	"testing"

	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := New(db, bus.New())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestReplaceAndLookup(t *testing.T) {
	s := testStore(t)

	list := []store.Contact{
		{ID: "u2", Username: "bob", Email: "bob@example.com"},
		{ID: "u3", Username: "carol", Email: "carol@example.com"},
	}
	if err := s.Replace(list); err != nil {
		t.Fatal(err)
	}

	c, ok := s.ByID("u3")
	if !ok {
		t.Fatal("ByID(u3) not found")
	}
	if c.Username != "carol" {
		t.Errorf("username = %q, want carol", c.Username)
	}

	if _, ok := s.ByID("missing"); ok {
		t.Error("ByID(missing) = ok, want not found")
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	s := testStore(t)

	if err := s.Replace([]store.Contact{{ID: "u2", Username: "bob"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace([]store.Contact{{ID: "u3", Username: "carol"}}); err != nil {
		t.Fatal(err)
	}

	if _, ok := s.ByID("u2"); ok {
		t.Error("u2 survived a wholesale replace")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestReset(t *testing.T) {
	s := testStore(t)

	if err := s.Replace([]store.Contact{{ID: "u2"}, {ID: "u3"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", s.Len())
	}
	if got := s.All(); len(got) != 0 {
		t.Errorf("All() = %v after Reset, want empty", got)
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	s := testStore(t)

	if err := s.Replace([]store.Contact{{ID: "u2", Username: "bob"}}); err != nil {
		t.Fatal(err)
	}

	got := s.All()
	got[0].Username = "mallory"

	c, _ := s.ByID("u2")
	if c.Username != "bob" {
		t.Error("mutating All() result leaked into the store")
	}
}

func TestRehydrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	s, err := New(db, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Replace([]store.Contact{{ID: "u2", Username: "bob"}}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db2, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db2.Close() }()
	s2, err := New(db2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := s2.ByID("u2"); !ok || c.Username != "bob" {
		t.Errorf("rehydrated contact = %+v ok=%v, want bob", c, ok)
	}
}
