package store

import (
	"fmt"
	"time"
)

// ReplaceContacts swaps the contacts cache wholesale in a single
// transaction. The directory fetch is authoritative; no incremental merge.
func (db *DB) ReplaceContacts(contacts []Contact) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM contacts`); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}

	now := time.Now().UnixMilli()
	for i, c := range contacts {
		if _, err := tx.Exec(`
			INSERT INTO contacts (id, username, email, status, position, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Username, c.Email, c.Status, i, now); err != nil {
			return fmt.Errorf("insert contact %q: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// ListContacts returns the cached contacts in the order they were stored.
func (db *DB) ListContacts() ([]Contact, error) {
	rows, err := db.Query(`
		SELECT id, username, email, status
		FROM contacts
		ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Username, &c.Email, &c.Status); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ContactCount returns the number of cached contacts.
func (db *DB) ContactCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count)
	return count, err
}
