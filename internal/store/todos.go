package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/wellkit/internal/domain"
)

// AddTodo creates a to-do item for owner
func (s *Store) AddTodo(ctx context.Context, owner, text string) (*domain.Todo, error) {
	t := domain.Todo{
		ID:        uuid.New().String(),
		OwnerID:   owner,
		Text:      text,
		CreatedAt: s.timestamp(),
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todos (id, owner_id, text, done, created_at) VALUES (?, ?, ?, ?, ?)",
		t.ID, t.OwnerID, t.Text, t.Done, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return &t, nil
}

func scanTodos(rows *sql.Rows) ([]domain.Todo, error) {
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Text, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// ListTodos returns the owner's to-do items, newest first
func (s *Store) ListTodos(ctx context.Context, owner string) ([]domain.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, text, done, created_at FROM todos WHERE owner_id = ? ORDER BY created_at DESC",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return scanTodos(rows)
}

// TodosSince returns the owner's to-do items created at or after since
func (s *Store) TodosSince(ctx context.Context, owner string, since time.Time) ([]domain.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, text, done, created_at FROM todos WHERE owner_id = ? AND created_at >= ? ORDER BY created_at DESC",
		owner, since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list todos since: %w", err)
	}
	return scanTodos(rows)
}

// SetTodoDone marks a to-do item done or not done
func (s *Store) SetTodoDone(ctx context.Context, owner, id string, done bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET done = ? WHERE id = ? AND owner_id = ?",
		done, id, owner,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTodo removes one of the owner's to-do items
func (s *Store) DeleteTodo(ctx context.Context, owner, id string) error {
	return s.deleteOwned(ctx, "todos", owner, id)
}
