package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/wellkit/internal/domain"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a record does not exist for the owner
var ErrNotFound = errors.New("not found")

// Store handles database operations
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection: serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SetClock replaces the timestamp source used for created_at
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) timestamp() time.Time {
	// stored in UTC so that created_at compares lexically
	return s.now().UTC()
}

// AddJournal saves a journal entry and mirrors its analysis into the mood
// history in one transaction.
func (s *Store) AddJournal(ctx context.Context, entry domain.JournalEntry, a domain.Analysis) (*domain.JournalEntry, *domain.MoodRecord, error) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = s.timestamp()
	entry.MoodLabel = a.Label
	entry.MoodScore = a.Score

	mood := moodFromAnalysis(entry.OwnerID, entry.Content, a)
	mood.ID = uuid.New().String()
	mood.JournalID = entry.ID
	mood.CreatedAt = entry.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO journals (id, owner_id, kind, content, question, mood_label, mood_score, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.OwnerID, entry.Kind, entry.Content, entry.Question, entry.MoodLabel, entry.MoodScore, entry.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert journal: %w", err)
	}

	if err := insertMood(ctx, tx, &mood); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit journal: %w", err)
	}
	return &entry, &mood, nil
}

const journalColumns = "id, owner_id, kind, content, question, mood_label, mood_score, created_at"

func scanJournals(rows *sql.Rows) ([]domain.JournalEntry, error) {
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Kind, &e.Content, &e.Question, &e.MoodLabel, &e.MoodScore, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListJournals returns the owner's entries, newest first
func (s *Store) ListJournals(ctx context.Context, owner string, limit, offset int) ([]domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+journalColumns+" FROM journals WHERE owner_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		owner, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	return scanJournals(rows)
}

// JournalsSince returns the owner's entries created at or after since, newest first
func (s *Store) JournalsSince(ctx context.Context, owner string, since time.Time) ([]domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+journalColumns+" FROM journals WHERE owner_id = ? AND created_at >= ? ORDER BY created_at DESC",
		owner, since.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list journals since: %w", err)
	}
	return scanJournals(rows)
}

// DeleteJournal removes one of the owner's entries. Its mood record stays in
// the history.
func (s *Store) DeleteJournal(ctx context.Context, owner, id string) error {
	return s.deleteOwned(ctx, "journals", owner, id)
}

func (s *Store) deleteOwned(ctx context.Context, table, owner, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ? AND owner_id = ?", id, owner)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func moodFromAnalysis(owner, text string, a domain.Analysis) domain.MoodRecord {
	return domain.MoodRecord{
		OwnerID:        owner,
		SourceText:     text,
		Label:          a.Label,
		Score:          a.Score,
		Confidence:     a.Confidence,
		EmotionalTones: a.EmotionalTones,
		KeyPhrases:     a.KeyPhrases,
		Suggestion:     a.Suggestion,
		Source:         a.Source,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertMood(ctx context.Context, db execer, m *domain.MoodRecord) error {
	if m.EmotionalTones == nil {
		m.EmotionalTones = []string{}
	}
	if m.KeyPhrases == nil {
		m.KeyPhrases = []string{}
	}
	if m.Source == "" {
		m.Source = domain.SourceManual
	}
	tones, err := json.Marshal(m.EmotionalTones)
	if err != nil {
		return fmt.Errorf("marshal tones: %w", err)
	}
	phrases, err := json.Marshal(m.KeyPhrases)
	if err != nil {
		return fmt.Errorf("marshal phrases: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO moods (id, owner_id, journal_id, source_text, label, score, confidence, emotional_tones, key_phrases, suggestion, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.OwnerID, m.JournalID, m.SourceText, m.Label, m.Score, m.Confidence, string(tones), string(phrases), m.Suggestion, m.Source, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mood: %w", err)
	}
	return nil
}

// AddMood stores a manually logged mood record
func (s *Store) AddMood(ctx context.Context, m domain.MoodRecord) (*domain.MoodRecord, error) {
	m.ID = uuid.New().String()
	m.CreatedAt = s.timestamp()
	if err := insertMood(ctx, s.db, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMoods returns the owner's mood history, newest first. limit <= 0 means all.
func (s *Store) ListMoods(ctx context.Context, owner string, limit int) ([]domain.MoodRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, journal_id, source_text, label, score, confidence, emotional_tones, key_phrases, suggestion, source, created_at
		FROM moods WHERE owner_id = ? ORDER BY created_at DESC LIMIT ?`,
		owner, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	defer rows.Close()

	var moods []domain.MoodRecord
	for rows.Next() {
		var (
			m              domain.MoodRecord
			tones, phrases string
		)
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.JournalID, &m.SourceText, &m.Label, &m.Score, &m.Confidence, &tones, &phrases, &m.Suggestion, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		if err := json.Unmarshal([]byte(tones), &m.EmotionalTones); err != nil {
			return nil, fmt.Errorf("decode tones: %w", err)
		}
		if err := json.Unmarshal([]byte(phrases), &m.KeyPhrases); err != nil {
			return nil, fmt.Errorf("decode phrases: %w", err)
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

// DeleteMood removes one of the owner's mood records
func (s *Store) DeleteMood(ctx context.Context, owner, id string) error {
	return s.deleteOwned(ctx, "moods", owner, id)
}
