package domain

import (
	"fmt"
	"strings"
)

// MoodLabel is one of the fixed sentiment categories
type MoodLabel string

const (
	MoodVeryHappy MoodLabel = "VERY_HAPPY"
	MoodHappy     MoodLabel = "HAPPY"
	MoodNeutral   MoodLabel = "NEUTRAL"
	MoodSad       MoodLabel = "SAD"
	MoodVerySad   MoodLabel = "VERY_SAD"
	MoodAnxious   MoodLabel = "ANXIOUS"
	MoodAngry     MoodLabel = "ANGRY"
	MoodGrateful  MoodLabel = "GRATEFUL"
	MoodStressed  MoodLabel = "STRESSED"
	MoodExcited   MoodLabel = "EXCITED"
)

// MoodCategory holds display data and score for a label
type MoodCategory struct {
	Label MoodLabel `json:"label"`
	Emoji string    `json:"emoji"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Score int       `json:"score"`
}

// MoodLabels lists every label in display order.
var MoodLabels = []MoodLabel{
	MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad,
	MoodAnxious, MoodAngry, MoodGrateful, MoodStressed, MoodExcited,
}

var moodCategories = map[MoodLabel]MoodCategory{
	MoodVeryHappy: {MoodVeryHappy, "😊", "Very Happy", "#10b981", 5},
	MoodHappy:     {MoodHappy, "🙂", "Happy", "#34d399", 4},
	MoodNeutral:   {MoodNeutral, "😐", "Neutral", "#fbbf24", 3},
	MoodSad:       {MoodSad, "😔", "Sad", "#60a5fa", 2},
	MoodVerySad:   {MoodVerySad, "😢", "Very Sad", "#3b82f6", 1},
	MoodAnxious:   {MoodAnxious, "😰", "Anxious", "#f87171", 2},
	MoodAngry:     {MoodAngry, "😠", "Angry", "#ef4444", 1},
	MoodGrateful:  {MoodGrateful, "🙏", "Grateful", "#a78bfa", 5},
	MoodStressed:  {MoodStressed, "😫", "Stressed", "#fb923c", 2},
	MoodExcited:   {MoodExcited, "🤗", "Excited", "#f472b6", 5},
}

// ParseMoodLabel accepts the wire form ("VERY_HAPPY") case-insensitively.
// Unknown labels are an error, never a silent default.
func ParseMoodLabel(s string) (MoodLabel, error) {
	l := MoodLabel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := moodCategories[l]; !ok {
		return "", fmt.Errorf("unknown mood label %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of the fixed labels
func (l MoodLabel) Valid() bool {
	_, ok := moodCategories[l]
	return ok
}

// Category returns display data for l, falling back to Neutral
func (l MoodLabel) Category() MoodCategory {
	if c, ok := moodCategories[l]; ok {
		return c
	}
	return moodCategories[MoodNeutral]
}

// Score returns the 1-5 valence score of l
func (l MoodLabel) Score() int {
	return l.Category().Score
}

// Display renders the label as "emoji name"
func (l MoodLabel) Display() string {
	c := l.Category()
	return c.Emoji + " " + c.Name
}
