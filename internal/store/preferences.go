package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetPreference returns the owner's value for key, or ErrNotFound
func (s *Store) GetPreference(ctx context.Context, owner, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE owner_id = ? AND key = ?",
		owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference: %w", err)
	}
	return value, nil
}

// SetPreference upserts the owner's value for key
func (s *Store) SetPreference(ctx context.Context, owner, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (owner_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		owner, key, value, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}
