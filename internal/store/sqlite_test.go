package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wellkit/internal/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := &fakeClock{t: time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)}
	s.SetClock(clock.now)
	return s, clock
}

func TestAddJournalMirrorsMood(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := domain.Analysis{
		Label: domain.MoodGrateful, Score: 5, Confidence: 0.8,
		EmotionalTones: []string{"warm"}, KeyPhrases: []string{"thank you"},
		Suggestion: "Share it with someone.", Source: domain.SourceModel,
	}
	entry, mood, err := s.AddJournal(ctx, domain.JournalEntry{
		OwnerID: "u1", Kind: domain.KindGratitude, Content: "thank you, friends", Question: "What made you smile?",
	}, a)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.MoodGrateful, entry.MoodLabel)
	assert.Equal(t, entry.ID, mood.JournalID)
	assert.Equal(t, entry.CreatedAt, mood.CreatedAt)

	journals, err := s.ListJournals(ctx, "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.Equal(t, domain.KindGratitude, journals[0].Kind)
	assert.Equal(t, "What made you smile?", journals[0].Question)
	assert.Equal(t, 5, journals[0].MoodScore)

	moods, err := s.ListMoods(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "thank you, friends", moods[0].SourceText)
	assert.Equal(t, []string{"warm"}, moods[0].EmotionalTones)
	assert.Equal(t, []string{"thank you"}, moods[0].KeyPhrases)
	assert.Equal(t, 0.8, moods[0].Confidence)
	assert.Equal(t, domain.SourceModel, moods[0].Source)
	assert.True(t, moods[0].CreatedAt.Equal(entry.CreatedAt))
}

func TestListMoodsNewestFirstAndScoped(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, l := range []domain.MoodLabel{domain.MoodSad, domain.MoodNeutral, domain.MoodHappy} {
		_, err := s.AddMood(ctx, domain.MoodRecord{OwnerID: "u1", Label: l, Score: l.Score(), Confidence: 1})
		require.NoError(t, err)
	}
	_, err := s.AddMood(ctx, domain.MoodRecord{OwnerID: "u2", Label: domain.MoodAngry, Score: 1})
	require.NoError(t, err)

	moods, err := s.ListMoods(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, moods, 3)
	assert.Equal(t, domain.MoodHappy, moods[0].Label)
	assert.Equal(t, domain.MoodSad, moods[2].Label)
	assert.Equal(t, []string{}, moods[0].EmotionalTones)

	limited, err := s.ListMoods(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	m, err := s.AddMood(ctx, domain.MoodRecord{OwnerID: "u1", Label: domain.MoodHappy, Score: 4})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteMood(ctx, "u2", m.ID), ErrNotFound)
	require.NoError(t, s.DeleteMood(ctx, "u1", m.ID))
	assert.ErrorIs(t, s.DeleteMood(ctx, "u1", m.ID), ErrNotFound)

	todo, err := s.AddTodo(ctx, "u1", "stretch")
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteTodo(ctx, "u2", todo.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteJournal(ctx, "u1", "missing"), ErrNotFound)
}

func TestTodos(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	old, err := s.AddTodo(ctx, "u1", "yesterday's task")
	require.NoError(t, err)
	clock.t = clock.t.Add(24 * time.Hour)
	fresh, err := s.AddTodo(ctx, "u1", "today's task")
	require.NoError(t, err)

	require.NoError(t, s.SetTodoDone(ctx, "u1", old.ID, true))
	assert.ErrorIs(t, s.SetTodoDone(ctx, "u2", old.ID, true), ErrNotFound)

	all, err := s.ListTodos(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, fresh.ID, all[0].ID)
	assert.True(t, all[1].Done)

	since, err := s.TodosSince(ctx, "u1", domain.Date("2024-06-16").Start(time.UTC))
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, fresh.ID, since[0].ID)
}

func TestJournalsSinceRespectsZone(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()

	// 2024-06-15 08:01 UTC is 2024-06-15 17:01 in Tokyo
	_, _, err := s.AddJournal(ctx, domain.JournalEntry{OwnerID: "u1", Kind: domain.KindJournal, Content: "a"}, domain.Analysis{Label: domain.MoodNeutral, Score: 3})
	require.NoError(t, err)
	clock.t = clock.t.Add(16 * time.Hour)
	// 2024-06-16 00:02 UTC is 2024-06-16 09:02 in Tokyo
	_, _, err = s.AddJournal(ctx, domain.JournalEntry{OwnerID: "u1", Kind: domain.KindJournal, Content: "b"}, domain.Analysis{Label: domain.MoodNeutral, Score: 3})
	require.NoError(t, err)

	tokyo := time.FixedZone("JST", 9*3600)
	got, err := s.JournalsSince(ctx, "u1", domain.Date("2024-06-16").Start(tokyo))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Content)

	got, err = s.JournalsSince(ctx, "u1", domain.Date("2024-06-15").Start(time.UTC))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStreakDocument(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	fresh, err := s.LoadStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", fresh.OwnerID)
	assert.Zero(t, fresh.CurrentStreak)
	assert.Empty(t, fresh.StreakHistory)

	saved, err := s.UpdateStreak(ctx, "u1", func(st *domain.DailyActivityState) error {
		st.CurrentStreak = 3
		st.LongestStreak = 7
		st.LastActiveDate = "2024-06-15"
		st.StreakHistory = append(st.StreakHistory, domain.StreakDay{Date: "2024-06-15", Streak: 3})
		st.Today = domain.TodayActivities{Date: "2024-06-15", Journal: true, Gratitude: true, Todo: true, Completed: true}
		return nil
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	loaded, err := s.LoadStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.CurrentStreak)
	assert.Equal(t, 7, loaded.LongestStreak)
	assert.Equal(t, domain.Date("2024-06-15"), loaded.LastActiveDate)
	assert.Equal(t, []domain.StreakDay{{Date: "2024-06-15", Streak: 3}}, loaded.StreakHistory)
	assert.True(t, loaded.Today.Completed)
}

func TestUpdateStreakRollsBackOnError(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateStreak(ctx, "u1", func(st *domain.DailyActivityState) error {
		st.CurrentStreak = 2
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("rule violated")
	_, err = s.UpdateStreak(ctx, "u1", func(st *domain.DailyActivityState) error {
		st.CurrentStreak = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := s.LoadStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.CurrentStreak)
}

func TestPreferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetPreference(ctx, "u1", "timezone")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetPreference(ctx, "u1", "timezone", "Europe/Paris"))
	require.NoError(t, s.SetPreference(ctx, "u1", "timezone", "Asia/Tokyo"))

	v, err := s.GetPreference(ctx, "u1", "timezone")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", v)

	_, err = s.GetPreference(ctx, "u2", "timezone")
	assert.ErrorIs(t, err, ErrNotFound)
}
