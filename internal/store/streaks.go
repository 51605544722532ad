package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pbaille/wellkit/internal/domain"
)

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func loadStreak(ctx context.Context, q queryRower, owner string) (domain.DailyActivityState, error) {
	var doc string
	err := q.QueryRowContext(ctx, "SELECT doc FROM streaks WHERE owner_id = ?", owner).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyActivityState{OwnerID: owner, StreakHistory: []domain.StreakDay{}}, nil
	}
	if err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("get streak: %w", err)
	}

	var state domain.DailyActivityState
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("decode streak: %w", err)
	}
	state.OwnerID = owner
	if state.StreakHistory == nil {
		state.StreakHistory = []domain.StreakDay{}
	}
	return state, nil
}

// LoadStreak returns the owner's ledger document, or zero defaults when the
// owner has none yet
func (s *Store) LoadStreak(ctx context.Context, owner string) (domain.DailyActivityState, error) {
	return loadStreak(ctx, s.db, owner)
}

// UpdateStreak loads the owner's ledger, applies fn and writes the result in
// one transaction. Nothing is written when fn fails.
func (s *Store) UpdateStreak(ctx context.Context, owner string, fn func(*domain.DailyActivityState) error) (domain.DailyActivityState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	state, err := loadStreak(ctx, tx, owner)
	if err != nil {
		return domain.DailyActivityState{}, err
	}
	if err := fn(&state); err != nil {
		return domain.DailyActivityState{}, err
	}

	state.OwnerID = owner
	state.UpdatedAt = s.timestamp()
	doc, err := json.Marshal(state)
	if err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("encode streak: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO streaks (owner_id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		owner, string(doc), state.UpdatedAt,
	)
	if err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("save streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.DailyActivityState{}, fmt.Errorf("commit streak: %w", err)
	}
	return state, nil
}
