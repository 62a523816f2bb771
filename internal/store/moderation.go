package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// FlipToggle inverts the stored state of a named toggle and returns the new
// value. Toggles default to enabled, so the first flip of an unseen name
// creates the row disabled. Flipping twice restores the original state.
func (s *Store) FlipToggle(ctx context.Context, name string) (bool, error) {
	// A single upsert keeps the flip atomic under concurrent admin commands.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO toggles (name, enabled) VALUES (?, 0)
		 ON CONFLICT(name) DO UPDATE SET enabled = 1 - enabled`,
		name,
	)
	if err != nil {
		return false, fmt.Errorf("flip toggle: %w", err)
	}

	return s.ToggleEnabled(ctx, name)
}

// ToggleEnabled reports whether a named toggle is enabled. An absent row means
// enabled by policy default.
func (s *Store) ToggleEnabled(ctx context.Context, name string) (bool, error) {
	var enabled bool
	err := s.db.QueryRowContext(ctx,
		`SELECT enabled FROM toggles WHERE name = ?`, name,
	).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("select toggle: %w", err)
	}

	return enabled, nil
}

// AddToBlacklist suppresses a user. Adding an already-present id is a no-op.
func (s *Store) AddToBlacklist(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO blacklist (user_id) VALUES (?)`, userID,
	); err != nil {
		return fmt.Errorf("insert blacklist: %w", err)
	}

	return nil
}

// Blacklisted reports whether a user id is suppressed.
func (s *Store) Blacklisted(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM blacklist WHERE user_id = ?`, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select blacklist: %w", err)
	}

	return true, nil
}
