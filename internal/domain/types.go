package domain

import "time"

// MoodRecord is one classified emotional snapshot
type MoodRecord struct {
	ID             string         `json:"id"`
	OwnerID        string         `json:"owner_id"`
	JournalID      string         `json:"journal_id,omitempty"`
	SourceText     string         `json:"source_text"`
	Label          MoodLabel      `json:"label"`
	Score          int            `json:"score"`
	Confidence     float64        `json:"confidence"`
	EmotionalTones []string       `json:"emotional_tones"`
	KeyPhrases     []string       `json:"key_phrases"`
	Suggestion     string         `json:"suggestion"`
	Source         AnalysisSource `json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AnalysisSource names the classifier that produced an Analysis
type AnalysisSource string

const (
	SourceModel   AnalysisSource = "model"
	SourceKeyword AnalysisSource = "keyword"
	SourceManual  AnalysisSource = "manual"
)

// Analysis is the classifier output, a MoodRecord without identity
type Analysis struct {
	Label          MoodLabel      `json:"label"`
	Score          int            `json:"score"`
	Confidence     float64        `json:"confidence"`
	EmotionalTones []string       `json:"emotional_tones"`
	KeyPhrases     []string       `json:"key_phrases"`
	Suggestion     string         `json:"suggestion"`
	Source         AnalysisSource `json:"source"`
}

// JournalKind distinguishes free journaling from gratitude practice
type JournalKind string

const (
	KindJournal   JournalKind = "journal"
	KindGratitude JournalKind = "gratitude"
)

// JournalEntry is a saved journal or gratitude entry
type JournalEntry struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Kind      JournalKind `json:"kind"`
	Content   string      `json:"content"`
	Question  string      `json:"question,omitempty"`
	MoodLabel MoodLabel   `json:"mood_label"`
	MoodScore int         `json:"mood_score"`
	CreatedAt time.Time   `json:"created_at"`
}

// Todo is a to-do item
type Todo struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Activity is one of the tracked daily wellness activities
type Activity string

const (
	ActivityJournal   Activity = "journal"
	ActivityGratitude Activity = "gratitude"
	ActivityTodo      Activity = "todo"
)

// Activities lists the required activities in display order
var Activities = []Activity{ActivityJournal, ActivityGratitude, ActivityTodo}

// TodayActivities tracks which activities were done on Date
type TodayActivities struct {
	Date      Date `json:"date"`
	Journal   bool `json:"journal"`
	Gratitude bool `json:"gratitude"`
	Todo      bool `json:"todo"`
	Completed bool `json:"completed"`
}

// Done reports whether activity a is checked
func (t TodayActivities) Done(a Activity) bool {
	switch a {
	case ActivityJournal:
		return t.Journal
	case ActivityGratitude:
		return t.Gratitude
	case ActivityTodo:
		return t.Todo
	}
	return false
}

// StreakDay records the streak value on a completed day
type StreakDay struct {
	Date   Date `json:"date"`
	Streak int  `json:"streak"`
}

// DailyActivityState is the per-user streak ledger document
type DailyActivityState struct {
	OwnerID         string          `json:"owner_id"`
	CurrentStreak   int             `json:"current_streak"`
	LongestStreak   int             `json:"longest_streak"`
	LastActiveDate  Date            `json:"last_active_date,omitempty"`
	TotalDaysActive int             `json:"total_days_active"`
	StreakHistory   []StreakDay     `json:"streak_history"`
	Today           TodayActivities `json:"today_activities"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Trend characterizes a mood trajectory
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendStable           Trend = "stable"
	TrendDeclining        Trend = "declining"
	TrendVariable         Trend = "variable"
	TrendInsufficientData Trend = "insufficient_data"
	TrendUnknown          Trend = "unknown"
)

// TrendReport is a derived, non-persisted summary of recent moods
type TrendReport struct {
	Trend          Trend    `json:"trend"`
	Insights       []string `json:"insights"`
	Recommendation string   `json:"recommendation"`
}
