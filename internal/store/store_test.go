package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate; a second run must be a no-op.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)

	u := &User{
		ID:       "u1",
		Username: "alice",
		Email:    "alice@example.com",
		Status:   "online",
		Contacts: []string{"u2", "u3"},
		Token:    "t1",
	}
	if err := db.SaveSession(u); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("LoadSession returned nil after save")
	}
	if got.ID != "u1" || got.Token != "t1" || got.Username != "alice" {
		t.Errorf("loaded session = %+v, want saved values", got)
	}
	if len(got.Contacts) != 2 {
		t.Errorf("contacts = %v, want 2 entries", got.Contacts)
	}
}

func TestSessionReplacedWholesale(t *testing.T) {
	db := testDB(t)

	if err := db.SaveSession(&User{ID: "u1", Username: "alice", Token: "t1"}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSession(&User{ID: "u1", Username: "alice", Token: "t2"}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got.Token != "t2" {
		t.Errorf("token = %q, want t2 (whole-object replace)", got.Token)
	}
}

func TestSessionAbsentAndCleared(t *testing.T) {
	db := testDB(t)

	got, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("fresh db LoadSession = %+v, want nil", got)
	}

	if err := db.SaveSession(&User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := db.ClearSession(); err != nil {
		t.Fatal(err)
	}
	got, err = db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("LoadSession after clear = %+v, want nil", got)
	}
}

func TestContactsReplaceWholesale(t *testing.T) {
	db := testDB(t)

	first := []Contact{
		{ID: "u2", Username: "bob", Email: "bob@example.com"},
		{ID: "u3", Username: "carol", Email: "carol@example.com"},
	}
	if err := db.ReplaceContacts(first); err != nil {
		t.Fatal(err)
	}

	// Second replace drops entries absent from the new list.
	second := []Contact{
		{ID: "u4", Username: "dave", Email: "dave@example.com"},
	}
	if err := db.ReplaceContacts(second); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d contacts, want 1", len(got))
	}
	if got[0].ID != "u4" {
		t.Errorf("contact id = %q, want u4", got[0].ID)
	}
}

func TestContactsOrderPreserved(t *testing.T) {
	db := testDB(t)

	list := []Contact{
		{ID: "z", Username: "zoe"},
		{ID: "a", Username: "amy"},
		{ID: "m", Username: "max"},
	}
	if err := db.ReplaceContacts(list); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListContacts()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d contacts, want 3", len(got))
	}
	for i, c := range list {
		if got[i].ID != c.ID {
			t.Errorf("position %d = %q, want %q (storage order)", i, got[i].ID, c.ID)
		}
	}
}

func TestReplaceContactsEmpty(t *testing.T) {
	db := testDB(t)

	if err := db.ReplaceContacts([]Contact{{ID: "u2", Username: "bob"}}); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceContacts(nil); err != nil {
		t.Fatal(err)
	}

	count, err := db.ContactCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
