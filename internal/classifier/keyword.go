package classifier

import (
	"strings"

	"github.com/pbaille/wellkit/internal/domain"
)

// FallbackConfidence is reported for every keyword classification
const FallbackConfidence = 0.5

const keywordSuggestion = "Keep journaling to track your emotional patterns!"

var (
	positiveWords = []string{"happy", "joy", "grateful", "excited", "love", "wonderful", "amazing", "great", "good", "smile", "blessed"}
	negativeWords = []string{"sad", "angry", "frustrated", "worried", "anxious", "stress", "bad", "terrible", "hate", "fear"}
)

// Keyword is the deterministic word-list classifier. It needs no network
// and never fails.
type Keyword struct{}

// Classify scores text by how many words of each list it contains.
// Matching is by substring, so "unhappy" counts as positive.
func (Keyword) Classify(text string) domain.Analysis {
	lower := strings.ToLower(text)
	pos := countPresent(lower, positiveWords)
	neg := countPresent(lower, negativeWords)

	label := domain.MoodNeutral
	switch {
	case pos > neg:
		label = domain.MoodHappy
		if pos-neg > 2 {
			label = domain.MoodVeryHappy
		}
	case neg > pos:
		label = domain.MoodSad
		if neg-pos > 2 {
			label = domain.MoodVerySad
		}
	}

	return domain.Analysis{
		Label:          label,
		Score:          label.Score(),
		Confidence:     FallbackConfidence,
		EmotionalTones: []string{},
		KeyPhrases:     []string{},
		Suggestion:     keywordSuggestion,
		Source:         domain.SourceKeyword,
	}
}

func countPresent(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
