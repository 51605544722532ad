package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

const (
	prefDaily       = "daily_prompts"
	questionsPerDay = 5
)

var quotes = []string{
	"The only way out is through. - Robert Frost",
	"You are enough just as you are. - Meghan Markle",
	"Every day is a new beginning. - Unknown",
	"Be yourself; everyone else is already taken. - Oscar Wilde",
	"The best time to plant a tree was 20 years ago. The second best time is now. - Chinese Proverb",
	"You are braver than you believe, stronger than you seem, and smarter than you think. - A.A. Milne",
	"Happiness is not something ready made. It comes from your own actions. - Dalai Lama",
	"The only impossible journey is the one you never begin. - Tony Robbins",
	"In the middle of difficulty lies opportunity. - Albert Einstein",
	"Your present circumstances don't determine where you can go. - Denis Waitley",
}

var reflectionQuestions = []string{
	"What are three things you're grateful for today?",
	"What made you smile today?",
	"What challenge did you overcome today?",
	"How did you show kindness to yourself or others today?",
	"What's one thing you learned about yourself today?",
	"What moment from today would you like to remember?",
	"How did you take care of your mental health today?",
	"What's one positive change you noticed in yourself recently?",
	"What are you looking forward to tomorrow?",
	"How did you grow as a person today?",
	"What made you feel peaceful today?",
	"What's one accomplishment, big or small, from today?",
	"How did you practice self-compassion today?",
	"What's one thing you're proud of yourself for?",
	"What brought you joy today?",
}

// ErrNotFound must be returned by Preferences when a key is unset
var ErrNotFound = errors.New("preference not found")

// Preferences is a per-owner key/value store
type Preferences interface {
	GetPreference(ctx context.Context, owner, key string) (string, error)
	SetPreference(ctx context.Context, owner, key, value string) error
}

// Daily is the quote and reflection questions picked for one day
type Daily struct {
	Date      domain.Date `json:"date"`
	Quote     string      `json:"quote"`
	Questions []string    `json:"questions"`
}

// Service picks a quote and reflection questions once per owner and day
type Service struct {
	prefs    Preferences
	notFound error
	log      *logger.Logger
}

// New creates a Service. notFound is the error prefs returns for unset keys.
func New(prefs Preferences, notFound error, log *logger.Logger) *Service {
	if notFound == nil {
		notFound = ErrNotFound
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{prefs: prefs, notFound: notFound, log: log}
}

// Today returns the owner's prompts for today, choosing new ones on a new day
func (s *Service) Today(ctx context.Context, owner string, today domain.Date) (Daily, error) {
	raw, err := s.prefs.GetPreference(ctx, owner, prefDaily)
	switch {
	case err == nil:
		var d Daily
		if jerr := json.Unmarshal([]byte(raw), &d); jerr == nil && d.Date == today {
			return d, nil
		}
	case errors.Is(err, s.notFound):
	default:
		return Daily{}, fmt.Errorf("get daily prompts: %w", err)
	}

	d := pick(today)
	data, err := json.Marshal(d)
	if err != nil {
		return Daily{}, fmt.Errorf("encode daily prompts: %w", err)
	}
	if err := s.prefs.SetPreference(ctx, owner, prefDaily, string(data)); err != nil {
		// the prompts are still usable, they just won't be stable for the day
		s.log.Warn("daily prompts not saved", "owner", owner, "error", err)
	}
	return d, nil
}

func pick(today domain.Date) Daily {
	perm := rand.Perm(len(reflectionQuestions))
	questions := make([]string, questionsPerDay)
	for i := range questions {
		questions[i] = reflectionQuestions[perm[i]]
	}
	return Daily{
		Date:      today,
		Quote:     quotes[rand.IntN(len(quotes))],
		Questions: questions,
	}
}
