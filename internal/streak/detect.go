package streak

import (
	"time"

	"github.com/pbaille/wellkit/internal/domain"
)

// DetectActivities derives today's evidence from the owner's journal and
// to-do records: a journal-kind entry, a gratitude-kind entry and any to-do
// created on today (in loc).
func DetectActivities(journals []domain.JournalEntry, todos []domain.Todo, today domain.Date, loc *time.Location) Evidence {
	var ev Evidence
	for _, j := range journals {
		if domain.DateOf(j.CreatedAt, loc) != today {
			continue
		}
		switch j.Kind {
		case domain.KindJournal:
			ev.Journal = true
		case domain.KindGratitude:
			ev.Gratitude = true
		}
	}
	for _, t := range todos {
		if domain.DateOf(t.CreatedAt, loc) == today {
			ev.Todo = true
			break
		}
	}
	return ev
}
