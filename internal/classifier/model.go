package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 10 * time.Second

// Model classifies text with an external generative model and falls back to
// Keyword whenever the model cannot produce a valid answer.
type Model struct {
	gen      Generator
	fallback Keyword
	timeout  time.Duration
	log      *logger.Logger
}

// NewModel creates a model-backed classifier. gen may be nil, in which case
// every call is answered by the keyword classifier.
func NewModel(gen Generator, timeout time.Duration, log *logger.Logger) *Model {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Model{gen: gen, timeout: timeout, log: log}
}

// Classify always returns a usable analysis. Model failures are logged and
// absorbed.
func (m *Model) Classify(ctx context.Context, text string) domain.Analysis {
	if m.gen == nil || strings.TrimSpace(text) == "" {
		return m.fallback.Classify(text)
	}

	a, err := m.classify(ctx, text)
	if err != nil {
		m.log.Warn("mood classification unavailable, using keyword fallback", "error", err)
		return m.fallback.Classify(text)
	}
	return a
}

func (m *Model) classify(ctx context.Context, text string) (domain.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.gen.Generate(ctx, buildMoodPrompt(text))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("generate: %w", err)
	}
	return parseMoodReply(resp)
}

func buildMoodPrompt(text string) string {
	quoted, _ := json.Marshal(text)

	var sb strings.Builder
	sb.WriteString("Analyze the emotional content of this journal entry and respond with ONLY a JSON object.\n\n")
	sb.WriteString("Journal Entry: ")
	sb.Write(quoted)
	sb.WriteString("\n\n")
	sb.WriteString("Respond with this exact JSON structure:\n{\n")
	sb.WriteString(`  "primaryMood": "one of: `)
	for i, l := range domain.MoodLabels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(l))
	}
	sb.WriteString("\",\n")
	sb.WriteString(`  "confidence": 0.0 to 1.0,
  "emotionalTones": ["array of detected emotions"],
  "keyPhrases": ["important emotional phrases from the text"],
  "suggestion": "A brief, supportive suggestion based on the mood (max 50 words)"
}

IMPORTANT: Return ONLY valid JSON, no markdown, no extra text.`)

	return sb.String()
}

type moodReply struct {
	PrimaryMood    *string  `json:"primaryMood"`
	Confidence     *float64 `json:"confidence"`
	EmotionalTones []string `json:"emotionalTones"`
	KeyPhrases     []string `json:"keyPhrases"`
	Suggestion     *string  `json:"suggestion"`
}

func parseMoodReply(resp string) (domain.Analysis, error) {
	var r moodReply
	if err := decodeStrict(resp, &r); err != nil {
		return domain.Analysis{}, err
	}

	if r.PrimaryMood == nil {
		return domain.Analysis{}, errors.New("missing primaryMood")
	}
	label, err := domain.ParseMoodLabel(*r.PrimaryMood)
	if err != nil {
		return domain.Analysis{}, err
	}

	if r.Confidence == nil {
		return domain.Analysis{}, errors.New("missing confidence")
	}
	if *r.Confidence < 0 || *r.Confidence > 1 {
		return domain.Analysis{}, fmt.Errorf("confidence %v out of range", *r.Confidence)
	}

	suggestion := keywordSuggestion
	if r.Suggestion != nil && strings.TrimSpace(*r.Suggestion) != "" {
		suggestion = strings.TrimSpace(*r.Suggestion)
	}

	return domain.Analysis{
		Label:          label,
		Score:          label.Score(),
		Confidence:     *r.Confidence,
		EmotionalTones: cleanStrings(r.EmotionalTones),
		KeyPhrases:     cleanStrings(r.KeyPhrases),
		Suggestion:     suggestion,
		Source:         domain.SourceModel,
	}, nil
}
