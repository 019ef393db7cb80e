// File: internal/store/store.go

// Package store persists session state (auth token and user identity)
// between invocations in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyAuthToken = "authToken"
	KeyUserID    = "userId"
	KeyUserEmail = "userEmail"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a small key-value table over sqlite. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the value for key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// Set writes or replaces the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// SaveCredentials stores the token and identity from a successful login.
// Empty identity fields clear any stale values.
func (s *Store) SaveCredentials(ctx context.Context, token, userID, email string) error {
	if err := s.Set(ctx, KeyAuthToken, token); err != nil {
		return err
	}
	for key, val := range map[string]string{KeyUserID: userID, KeyUserEmail: email} {
		if val == "" {
			if err := s.Delete(ctx, key); err != nil {
				return err
			}
			continue
		}
		if err := s.Set(ctx, key, val); err != nil {
			return err
		}
	}
	return nil
}

// Token returns the stored auth token, or "" when logged out.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, err := s.Get(ctx, KeyAuthToken)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return tok, err
}

// Identity returns the stored user id and email, empty when unknown.
func (s *Store) Identity(ctx context.Context) (userID, email string, err error) {
	userID, err = s.Get(ctx, KeyUserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", "", err
	}
	email, err = s.Get(ctx, KeyUserEmail)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", "", err
	}
	return userID, email, nil
}

// ClearCredentials removes all session state.
func (s *Store) ClearCredentials(ctx context.Context) error {
	for _, key := range []string{KeyAuthToken, KeyUserID, KeyUserEmail} {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
