package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

const (
	// MinTrendSamples is the smallest history the model is asked about
	MinTrendSamples = 3
	// TrendWindow is how many of the most recent records are analyzed
	TrendWindow = 7
	maxInsights = 3
)

const (
	insufficientRecommendation = "Keep tracking your moods to see patterns!"
	unknownInsight             = "Unable to analyze trends at this time"
	unknownRecommendation      = "Keep tracking your moods consistently!"
)

// TrendAnalyzer asks the external model to characterize a mood series
type TrendAnalyzer struct {
	gen     Generator
	timeout time.Duration
	loc     *time.Location
	log     *logger.Logger
}

// NewTrendAnalyzer creates an analyzer. Dates are rendered in loc.
func NewTrendAnalyzer(gen Generator, timeout time.Duration, loc *time.Location, log *logger.Logger) *TrendAnalyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TrendAnalyzer{gen: gen, timeout: timeout, loc: loc, log: log}
}

// InsufficientData is the report for histories shorter than MinTrendSamples
func InsufficientData() domain.TrendReport {
	return domain.TrendReport{
		Trend:          domain.TrendInsufficientData,
		Insights:       []string{},
		Recommendation: insufficientRecommendation,
	}
}

// UnknownTrend is the report used whenever the model path fails
func UnknownTrend() domain.TrendReport {
	return domain.TrendReport{
		Trend:          domain.TrendUnknown,
		Insights:       []string{unknownInsight},
		Recommendation: unknownRecommendation,
	}
}

// Analyze never returns an error; failures produce UnknownTrend.
func (t *TrendAnalyzer) Analyze(ctx context.Context, history []domain.MoodRecord) domain.TrendReport {
	if len(history) < MinTrendSamples {
		return InsufficientData()
	}
	if t.gen == nil {
		return UnknownTrend()
	}

	report, err := t.analyze(ctx, history)
	if err != nil {
		t.log.Warn("trend analysis unavailable", "error", err, "samples", len(history))
		return UnknownTrend()
	}
	return report
}

func (t *TrendAnalyzer) analyze(ctx context.Context, history []domain.MoodRecord) (domain.TrendReport, error) {
	prompt, err := t.buildPrompt(Recent(history, TrendWindow))
	if err != nil {
		return domain.TrendReport{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		return domain.TrendReport{}, fmt.Errorf("generate: %w", err)
	}
	return parseTrendReply(resp)
}

// Recent returns the n most recent records ordered oldest first.
// The input slice is not modified.
func Recent(history []domain.MoodRecord, n int) []domain.MoodRecord {
	sorted := make([]domain.MoodRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

type trendPoint struct {
	Date  domain.Date `json:"date"`
	Mood  string      `json:"mood"`
	Score int         `json:"score"`
}

func (t *TrendAnalyzer) buildPrompt(records []domain.MoodRecord) (string, error) {
	points := make([]trendPoint, len(records))
	for i, r := range records {
		score := r.Score
		if score == 0 {
			score = r.Label.Score()
		}
		points[i] = trendPoint{
			Date:  domain.DateOf(r.CreatedAt, t.loc),
			Mood:  r.Label.Category().Name,
			Score: score,
		}
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Analyze this mood history and provide insights. Respond with ONLY a JSON object.\n\n")
	sb.WriteString("Mood History: ")
	sb.Write(data)
	sb.WriteString(`

Respond with:
{
  "trend": "improving, stable, declining, or variable",
  "insights": ["array of 2-3 specific observations"],
  "recommendation": "One actionable suggestion based on the pattern (max 50 words)"
}

IMPORTANT: Return ONLY valid JSON.`)

	return sb.String(), nil
}

type trendReply struct {
	Trend          *string  `json:"trend"`
	Insights       []string `json:"insights"`
	Recommendation *string  `json:"recommendation"`
}

func parseTrendReply(resp string) (domain.TrendReport, error) {
	var r trendReply
	if err := decodeStrict(resp, &r); err != nil {
		return domain.TrendReport{}, err
	}

	if r.Trend == nil {
		return domain.TrendReport{}, errors.New("missing trend")
	}
	trend := domain.Trend(strings.ToLower(strings.TrimSpace(*r.Trend)))
	switch trend {
	case domain.TrendImproving, domain.TrendStable, domain.TrendDeclining, domain.TrendVariable:
	default:
		return domain.TrendReport{}, fmt.Errorf("unknown trend %q", *r.Trend)
	}

	insights := cleanStrings(r.Insights)
	if len(insights) == 0 {
		return domain.TrendReport{}, errors.New("missing insights")
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	if r.Recommendation == nil || strings.TrimSpace(*r.Recommendation) == "" {
		return domain.TrendReport{}, errors.New("missing recommendation")
	}

	return domain.TrendReport{
		Trend:          trend,
		Insights:       insights,
		Recommendation: strings.TrimSpace(*r.Recommendation),
	}, nil
}
