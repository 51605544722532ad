package streak

import (
	"github.com/pbaille/wellkit/internal/domain"
)

// HistoryLimit caps StreakHistory; the oldest entries are evicted first
const HistoryLimit = 30

// Evidence is what the persistence layer says was done today
type Evidence struct {
	Journal   bool `json:"journal"`
	Gratitude bool `json:"gratitude"`
	Todo      bool `json:"todo"`
}

func clone(s domain.DailyActivityState) domain.DailyActivityState {
	if s.StreakHistory != nil {
		h := make([]domain.StreakDay, len(s.StreakHistory))
		copy(h, s.StreakHistory)
		s.StreakHistory = h
	}
	return s
}

// Rollover returns s with today's activities reset when they belong to
// another day.
func Rollover(s domain.DailyActivityState, today domain.Date) domain.DailyActivityState {
	s = clone(s)
	if s.Today.Date != today {
		s.Today = domain.TodayActivities{Date: today}
	}
	return s
}

// Missing lists the activities not yet done, in display order
func Missing(t domain.TodayActivities) []string {
	var missing []string
	for _, a := range domain.Activities {
		if !t.Done(a) {
			missing = append(missing, string(a))
		}
	}
	return missing
}

// Toggle flips one activity for today. Streak counters are untouched.
func Toggle(s domain.DailyActivityState, kind domain.Activity, today domain.Date) (domain.DailyActivityState, error) {
	s = Rollover(s, today)
	if s.Today.Completed {
		return s, &AlreadyCompletedError{Date: today}
	}

	switch kind {
	case domain.ActivityJournal:
		s.Today.Journal = !s.Today.Journal
	case domain.ActivityGratitude:
		s.Today.Gratitude = !s.Today.Gratitude
	case domain.ActivityTodo:
		s.Today.Todo = !s.Today.Todo
	default:
		return s, ErrUnknownActivity
	}
	return s, nil
}

// Observe merges evidence into today's flags. Evidence only ever sets a flag,
// so a manual check is never undone and nothing is counted twice.
func Observe(s domain.DailyActivityState, ev Evidence, today domain.Date) domain.DailyActivityState {
	s = Rollover(s, today)
	if s.Today.Completed {
		return s
	}
	s.Today.Journal = s.Today.Journal || ev.Journal
	s.Today.Gratitude = s.Today.Gratitude || ev.Gratitude
	s.Today.Todo = s.Today.Todo || ev.Todo
	return s
}

// Complete marks today as done and advances or resets the streak.
// s is never modified; on error the returned state must be discarded.
func Complete(s domain.DailyActivityState, today domain.Date) (domain.DailyActivityState, error) {
	s = Rollover(s, today)

	if s.Today.Completed {
		return s, &AlreadyCompletedError{Date: today}
	}
	if missing := Missing(s.Today); len(missing) > 0 {
		return s, &IncompleteActivitiesError{Missing: missing}
	}
	if !s.LastActiveDate.IsZero() && today.Before(s.LastActiveDate) {
		return s, ErrClockSkew
	}

	gap := -1
	if !s.LastActiveDate.IsZero() {
		gap = today.DaysSince(s.LastActiveDate)
	}

	switch gap {
	case 0:
		// same day already counted; leave the counters alone
	case 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	if gap != 0 {
		s.TotalDaysActive++
	}

	s.LastActiveDate = today
	s.Today.Completed = true

	entry := domain.StreakDay{Date: today, Streak: s.CurrentStreak}
	if n := len(s.StreakHistory); n > 0 && s.StreakHistory[n-1].Date == today {
		s.StreakHistory[n-1] = entry
	} else {
		s.StreakHistory = append(s.StreakHistory, entry)
	}
	if len(s.StreakHistory) > HistoryLimit {
		s.StreakHistory = append([]domain.StreakDay(nil), s.StreakHistory[len(s.StreakHistory)-HistoryLimit:]...)
	}

	return s, nil
}

// Progress returns how many of the required activities are done and the
// rounded percentage.
func Progress(t domain.TodayActivities) (done, percent int) {
	for _, a := range domain.Activities {
		if t.Done(a) {
			done++
		}
	}
	percent = (done*100 + len(domain.Activities)/2) / len(domain.Activities)
	return done, percent
}
