// Package store persists report recipients in SQLite and writes raw
// pipeline results as timestamped JSON snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound reports that no subscriber matched the given email.
var ErrNotFound = errors.New("subscriber not found")

const schema = `
CREATE TABLE IF NOT EXISTS subscribers (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    email      TEXT NOT NULL UNIQUE,
    active     BOOLEAN DEFAULT 1,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// Subscriber is one report recipient.
type Subscriber struct {
	ID        int64
	Email     string
	Active    bool
	CreatedAt time.Time
}

// Store manages the subscriber database.
type Store struct {
	db *sql.DB
}

// New opens (and if needed initializes) the subscriber database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// AddSubscriber registers an email, re-activating it if it was removed.
func (s *Store) AddSubscriber(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (email, active) VALUES (?, 1)
		ON CONFLICT(email) DO UPDATE SET active = 1
	`, email)
	return err
}

// RemoveSubscriber deactivates an email.
func (s *Store) RemoveSubscriber(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subscribers SET active = 0 WHERE email = ?`, email)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", email, ErrNotFound)
	}
	return nil
}

// ActiveSubscribers lists recipients for the current run.
func (s *Store) ActiveSubscribers(ctx context.Context) ([]Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, active, created_at FROM subscribers WHERE active = 1 ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscriber
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
