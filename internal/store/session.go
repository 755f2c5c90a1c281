package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SaveSession persists the session snapshot, replacing any previous one.
// The snapshot row is the durable entry the session store rehydrates from.
func (db *DB) SaveSession(u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO session (id, snapshot, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		string(data), time.Now().UnixMilli())
	return err
}

// LoadSession returns the persisted session snapshot, or nil if none exists.
func (db *DB) LoadSession() (*User, error) {
	var data string
	err := db.QueryRow(`SELECT snapshot FROM session WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &u, nil
}

// ClearSession removes the persisted session snapshot.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
