package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbaille/wellkit/internal/domain"
)

func TestKeywordClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.MoodLabel
	}{
		{"empty text is neutral", "", domain.MoodNeutral},
		{"no keywords is neutral", "went to the store and bought bread", domain.MoodNeutral},
		{"single positive", "had a good lunch", domain.MoodHappy},
		{"single negative", "feeling sad", domain.MoodSad},
		{"three positives", "I am so happy and grateful today, everything is wonderful", domain.MoodVeryHappy},
		{"three negatives", "angry, worried and full of fear", domain.MoodVerySad},
		{"balanced", "good day but a bad night", domain.MoodNeutral},
		{"margin of two stays happy", "happy, grateful, wonderful but sad", domain.MoodHappy},
		{"case insensitive", "AMAZING", domain.MoodHappy},
		// substring matching is intentional
		{"unhappy counts as positive", "I feel unhappy", domain.MoodHappy},
		{"repeats count once", "happy happy happy", domain.MoodHappy},
	}

	var k Keyword
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Classify(tt.text)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, tt.want.Score(), got.Score)
			assert.Equal(t, FallbackConfidence, got.Confidence)
			assert.Empty(t, got.EmotionalTones)
			assert.Empty(t, got.KeyPhrases)
			assert.NotEmpty(t, got.Suggestion)
			assert.Equal(t, domain.SourceKeyword, got.Source)
			assert.True(t, got.Label.Valid())
		})
	}
}
