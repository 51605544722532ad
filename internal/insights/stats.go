package insights

import (
	"time"

	"github.com/pbaille/wellkit/internal/domain"
)

// Stats buckets mood records into happy, sad and neutral
type Stats struct {
	Happy   int `json:"happy"`
	Sad     int `json:"sad"`
	Neutral int `json:"neutral"`
	Total   int `json:"total"`
}

// DayScore is the average mood score of one calendar day, 0 when nothing was logged
type DayScore struct {
	Date    domain.Date `json:"date"`
	Average float64     `json:"average"`
	Count   int         `json:"count"`
}

// Summary is the stats view of a mood history
type Summary struct {
	Stats Stats      `json:"stats"`
	Week  []DayScore `json:"week"`
}

// ComputeStats buckets records by label
func ComputeStats(records []domain.MoodRecord) Stats {
	var st Stats
	for _, r := range records {
		switch r.Label {
		case domain.MoodVeryHappy, domain.MoodHappy, domain.MoodExcited, domain.MoodGrateful:
			st.Happy++
		case domain.MoodSad, domain.MoodVerySad, domain.MoodAngry, domain.MoodAnxious:
			st.Sad++
		default:
			st.Neutral++
		}
	}
	st.Total = len(records)
	return st
}

// Week averages scores for each of the 7 days ending on today, oldest first
func Week(records []domain.MoodRecord, today domain.Date, loc *time.Location) []DayScore {
	days := make([]DayScore, 7)
	index := make(map[domain.Date]int, 7)
	for i := range days {
		d := today.AddDays(i - 6)
		days[i].Date = d
		index[d] = i
	}

	sums := make([]int, 7)
	for _, r := range records {
		i, ok := index[domain.DateOf(r.CreatedAt, loc)]
		if !ok {
			continue
		}
		score := r.Score
		if score == 0 {
			score = r.Label.Score()
		}
		sums[i] += score
		days[i].Count++
	}
	for i := range days {
		if days[i].Count > 0 {
			days[i].Average = float64(sums[i]) / float64(days[i].Count)
		}
	}
	return days
}

// Summarize computes stats and the weekly chart for records
func Summarize(records []domain.MoodRecord, today domain.Date, loc *time.Location) Summary {
	return Summary{Stats: ComputeStats(records), Week: Week(records, today, loc)}
}
