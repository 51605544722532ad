package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

var (
	// ErrEmptyContent rejects blank entries
	ErrEmptyContent = errors.New("content is required")
	// ErrInvalidKind rejects kinds other than journal and gratitude
	ErrInvalidKind = errors.New("kind must be journal or gratitude")
)

// Classifier analyzes journal text. It must always return a usable result.
type Classifier interface {
	Classify(ctx context.Context, text string) domain.Analysis
}

// Store is the persistence the journal pipeline needs
type Store interface {
	AddJournal(ctx context.Context, entry domain.JournalEntry, a domain.Analysis) (*domain.JournalEntry, *domain.MoodRecord, error)
	ListJournals(ctx context.Context, owner string, limit, offset int) ([]domain.JournalEntry, error)
	DeleteJournal(ctx context.Context, owner, id string) error
	AddMood(ctx context.Context, m domain.MoodRecord) (*domain.MoodRecord, error)
}

// Service saves journal entries together with their mood analysis
type Service struct {
	store      Store
	classifier Classifier
	log        *logger.Logger
}

// New creates a journal Service
func New(store Store, classifier Classifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, classifier: classifier, log: log}
}

// SaveRequest is a new journal or gratitude entry
type SaveRequest struct {
	Kind     domain.JournalKind `json:"kind"`
	Content  string             `json:"content"`
	Question string             `json:"question,omitempty"`
}

// Saved is the stored entry and the mood mirrored from it
type Saved struct {
	Entry *domain.JournalEntry `json:"entry"`
	Mood  *domain.MoodRecord   `json:"mood"`
}

// Save classifies and stores an entry. Classification never blocks the save.
func (s *Service) Save(ctx context.Context, owner string, req SaveRequest) (*Saved, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	kind := req.Kind
	if kind == "" {
		kind = domain.KindJournal
	}
	if kind != domain.KindJournal && kind != domain.KindGratitude {
		return nil, ErrInvalidKind
	}

	analysis := s.classifier.Classify(ctx, content)

	entry, mood, err := s.store.AddJournal(ctx, domain.JournalEntry{
		OwnerID:  owner,
		Kind:     kind,
		Content:  content,
		Question: strings.TrimSpace(req.Question),
	}, analysis)
	if err != nil {
		return nil, fmt.Errorf("save journal: %w", err)
	}

	s.log.Debug("journal saved", "owner", owner, "kind", kind, "mood", analysis.Label, "source", analysis.Source)
	return &Saved{Entry: entry, Mood: mood}, nil
}

// LogMood records a manual mood check-in without journal text
func (s *Service) LogMood(ctx context.Context, owner string, label domain.MoodLabel, note string) (*domain.MoodRecord, error) {
	if !label.Valid() {
		return nil, fmt.Errorf("unknown mood label %q", label)
	}

	m, err := s.store.AddMood(ctx, domain.MoodRecord{
		OwnerID:        owner,
		SourceText:     strings.TrimSpace(note),
		Label:          label,
		Score:          label.Score(),
		Confidence:     1,
		EmotionalTones: []string{},
		KeyPhrases:     []string{},
		Suggestion:     manualSuggestion(label),
		Source:         domain.SourceManual,
	})
	if err != nil {
		return nil, fmt.Errorf("log mood: %w", err)
	}
	return m, nil
}

func manualSuggestion(label domain.MoodLabel) string {
	switch {
	case label.Score() >= 4:
		return "Notice what helped today and plan a little more of it."
	case label.Score() <= 2:
		return "Be gentle with yourself. A short walk or a few deep breaths can help."
	}
	return "Thanks for checking in. Keep tracking to see your patterns."
}

// List returns the owner's entries, newest first
func (s *Service) List(ctx context.Context, owner string, limit, offset int) ([]domain.JournalEntry, error) {
	return s.store.ListJournals(ctx, owner, limit, offset)
}

// Delete removes one of the owner's entries
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	return s.store.DeleteJournal(ctx, owner, id)
}
