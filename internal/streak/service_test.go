package streak

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wellkit/internal/domain"
)

type memStore struct {
	mu        sync.Mutex
	states    map[string]domain.DailyActivityState
	journals  []domain.JournalEntry
	todos     []domain.Todo
	failWrite error
	failRead  error
}

func newMemStore() *memStore {
	return &memStore{states: make(map[string]domain.DailyActivityState)}
}

func (m *memStore) LoadStreak(ctx context.Context, owner string) (domain.DailyActivityState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[owner]; ok {
		return clone(s), nil
	}
	return domain.DailyActivityState{OwnerID: owner}, nil
}

func (m *memStore) UpdateStreak(ctx context.Context, owner string, fn func(*domain.DailyActivityState) error) (domain.DailyActivityState, error) {
	s, _ := m.LoadStreak(ctx, owner)
	if err := fn(&s); err != nil {
		return domain.DailyActivityState{}, err
	}
	if m.failWrite != nil {
		return domain.DailyActivityState{}, m.failWrite
	}
	m.mu.Lock()
	m.states[owner] = clone(s)
	m.mu.Unlock()
	return s, nil
}

func (m *memStore) JournalsSince(ctx context.Context, owner string, since time.Time) ([]domain.JournalEntry, error) {
	if m.failRead != nil {
		return nil, m.failRead
	}
	var out []domain.JournalEntry
	for _, j := range m.journals {
		if j.OwnerID == owner && !j.CreatedAt.Before(since) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) TodosSince(ctx context.Context, owner string, since time.Time) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, t := range m.todos {
		if t.OwnerID == owner && !t.CreatedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestLedgerToggleAndComplete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	l := NewLedger(store, nil)

	for _, a := range domain.Activities {
		_, err := l.Toggle(ctx, "u1", a, today)
		require.NoError(t, err)
	}

	s, err := l.Complete(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.True(t, s.Today.Completed)

	_, err = l.Complete(ctx, "u1", today)
	var already *AlreadyCompletedError
	require.ErrorAs(t, err, &already)

	got, err := l.Get(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Len(t, got.StreakHistory, 1)

	// other owners are untouched
	other, err := l.Get(ctx, "u2", today)
	require.NoError(t, err)
	assert.Zero(t, other.CurrentStreak)
	assert.Equal(t, today, other.Today.Date)
}

func TestLedgerWriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.states["u1"] = domain.DailyActivityState{
		OwnerID: "u1", CurrentStreak: 4, LongestStreak: 4,
		LastActiveDate: today.AddDays(-1), Today: allDone(today),
	}
	l := NewLedger(store, nil)

	store.failWrite = errors.New("disk full")
	_, err := l.Complete(ctx, "u1", today)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "complete day", perr.Op)
	assert.ErrorIs(t, err, store.failWrite)

	store.failWrite = nil
	got, err := l.Get(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.False(t, got.Today.Completed)
	assert.Empty(t, got.StreakHistory)

	// retrying after the failure still advances exactly once
	got, err = l.Complete(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentStreak)
}

func TestLedgerRuleErrorIsNotPersistenceError(t *testing.T) {
	l := NewLedger(newMemStore(), nil)
	_, err := l.Complete(context.Background(), "u1", today)

	var perr *PersistenceError
	assert.False(t, errors.As(err, &perr))
	var incomplete *IncompleteActivitiesError
	assert.ErrorAs(t, err, &incomplete)
}

func TestLedgerSync(t *testing.T) {
	ctx := context.Background()
	loc := time.UTC
	noon := today.Start(loc).Add(12 * time.Hour)

	store := newMemStore()
	store.journals = []domain.JournalEntry{
		{OwnerID: "u1", Kind: domain.KindJournal, CreatedAt: noon},
		{OwnerID: "u1", Kind: domain.KindGratitude, CreatedAt: noon.Add(-24 * time.Hour)},
		{OwnerID: "u2", Kind: domain.KindGratitude, CreatedAt: noon},
	}
	store.todos = []domain.Todo{{OwnerID: "u1", CreatedAt: noon.Add(time.Hour)}}
	l := NewLedger(store, nil)

	s, err := l.Sync(ctx, "u1", today, loc)
	require.NoError(t, err)
	assert.Equal(t, domain.TodayActivities{Date: today, Journal: true, Todo: true}, s.Today)

	// a manual gratitude check survives a later sync
	_, err = l.Toggle(ctx, "u1", domain.ActivityGratitude, today)
	require.NoError(t, err)
	s, err = l.Sync(ctx, "u1", today, loc)
	require.NoError(t, err)
	assert.True(t, s.Today.Gratitude)

	s, err = l.Complete(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestLedgerSyncReadFailure(t *testing.T) {
	store := newMemStore()
	store.failRead = errors.New("connection reset")
	l := NewLedger(store, nil)

	_, err := l.Sync(context.Background(), "u1", today, time.UTC)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load activities", perr.Op)
}

func TestLedgerSerializesOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.states["u1"] = domain.DailyActivityState{OwnerID: "u1", Today: allDone(today)}
	l := NewLedger(store, nil)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Complete(ctx, "u1", today)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		var already *AlreadyCompletedError
		if errors.As(err, &already) {
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, rejected)

	got, err := l.Get(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalDaysActive)
	assert.Len(t, got.StreakHistory, 1)
}

func TestDetectActivitiesUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-06-14 20:00 UTC is already 2024-06-15 in Tokyo
	late := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)

	journals := []domain.JournalEntry{{Kind: domain.KindGratitude, CreatedAt: late}}
	todos := []domain.Todo{{CreatedAt: late}}

	assert.Equal(t, Evidence{Gratitude: true, Todo: true}, DetectActivities(journals, todos, today, tokyo))
	assert.Equal(t, Evidence{}, DetectActivities(journals, todos, today, time.UTC))
}
