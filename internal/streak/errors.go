package streak

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pbaille/wellkit/internal/domain"
)

var (
	// ErrUnknownActivity is returned when toggling something other than
	// journal, gratitude or todo
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrClockSkew is returned when completing a day earlier than the last
	// completed day
	ErrClockSkew = errors.New("date is before the last active date")
)

// AlreadyCompletedError rejects a second completion of the same day
type AlreadyCompletedError struct {
	Date domain.Date
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("day %s is already marked complete", e.Date)
}

// IncompleteActivitiesError lists the activities still missing today
type IncompleteActivitiesError struct {
	Missing []string
}

func (e *IncompleteActivitiesError) Error() string {
	return "complete all activities first, missing: " + strings.Join(e.Missing, ", ")
}

// PersistenceError wraps a store failure. The ledger was not changed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
