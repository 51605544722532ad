package streak

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

// Store is the persistence the ledger needs
type Store interface {
	// LoadStreak returns the owner's ledger, or zero defaults when none exists
	LoadStreak(ctx context.Context, owner string) (domain.DailyActivityState, error)
	// UpdateStreak runs fn inside a transaction and persists the result only
	// when fn succeeds
	UpdateStreak(ctx context.Context, owner string, fn func(*domain.DailyActivityState) error) (domain.DailyActivityState, error)
	JournalsSince(ctx context.Context, owner string, since time.Time) ([]domain.JournalEntry, error)
	TodosSince(ctx context.Context, owner string, since time.Time) ([]domain.Todo, error)
}

// Ledger owns each user's DailyActivityState. Updates for one owner are
// serialized; the returned state is always the committed one.
type Ledger struct {
	store Store
	locks *keyedMutex
	log   *logger.Logger
}

// NewLedger creates a ledger over store
func NewLedger(store Store, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{store: store, locks: newKeyedMutex(), log: log}
}

// Get returns the owner's ledger as seen on today
func (l *Ledger) Get(ctx context.Context, owner string, today domain.Date) (domain.DailyActivityState, error) {
	s, err := l.store.LoadStreak(ctx, owner)
	if err != nil {
		return domain.DailyActivityState{}, &PersistenceError{Op: "load streak", Err: err}
	}
	return Rollover(s, today), nil
}

// Toggle flips one activity for today
func (l *Ledger) Toggle(ctx context.Context, owner string, kind domain.Activity, today domain.Date) (domain.DailyActivityState, error) {
	return l.update(ctx, owner, "toggle activity", func(s domain.DailyActivityState) (domain.DailyActivityState, error) {
		return Toggle(s, kind, today)
	})
}

// Complete marks today complete
func (l *Ledger) Complete(ctx context.Context, owner string, today domain.Date) (domain.DailyActivityState, error) {
	s, err := l.update(ctx, owner, "complete day", func(s domain.DailyActivityState) (domain.DailyActivityState, error) {
		return Complete(s, today)
	})
	if err == nil {
		l.log.Info("day completed", "owner", owner, "date", today, "streak", s.CurrentStreak)
	}
	return s, err
}

// Sync reconciles today's flags with the owner's journal and to-do records
func (l *Ledger) Sync(ctx context.Context, owner string, today domain.Date, loc *time.Location) (domain.DailyActivityState, error) {
	since := today.Start(loc)

	var (
		journals []domain.JournalEntry
		todos    []domain.Todo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		journals, err = l.store.JournalsSince(gctx, owner, since)
		return err
	})
	g.Go(func() error {
		var err error
		todos, err = l.store.TodosSince(gctx, owner, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DailyActivityState{}, &PersistenceError{Op: "load activities", Err: err}
	}

	ev := DetectActivities(journals, todos, today, loc)
	return l.update(ctx, owner, "sync activities", func(s domain.DailyActivityState) (domain.DailyActivityState, error) {
		return Observe(s, ev, today), nil
	})
}

func (l *Ledger) update(ctx context.Context, owner, op string, fn func(domain.DailyActivityState) (domain.DailyActivityState, error)) (domain.DailyActivityState, error) {
	unlock := l.locks.Lock(owner)
	defer unlock()

	var ruleErr error
	s, err := l.store.UpdateStreak(ctx, owner, func(s *domain.DailyActivityState) error {
		next, err := fn(*s)
		if err != nil {
			ruleErr = err
			return err
		}
		*s = next
		return nil
	})
	if ruleErr != nil {
		return domain.DailyActivityState{}, ruleErr
	}
	if err != nil {
		l.log.Error("streak update failed", "owner", owner, "op", op, "error", err)
		return domain.DailyActivityState{}, &PersistenceError{Op: op, Err: err}
	}
	return s, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns its unlock func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
