package domain

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in ISO form (YYYY-MM-DD). The zero value means unset.
type Date string

// DateOf returns the calendar day of t in loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date(t.In(loc).Format(dateLayout))
}

// ParseDate validates s as a calendar day
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t.Format(dateLayout)), nil
}

// IsZero reports whether d is unset
func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }

func (d Date) time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date(d.time().AddDate(0, 0, n).Format(dateLayout))
}

// DaysSince returns the number of calendar days from earlier to d.
// The result is negative when earlier is after d.
func (d Date) DaysSince(earlier Date) int {
	// both parse as UTC midnight, so the difference is a whole number of days
	return int(d.time().Sub(earlier.time()).Hours() / 24)
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool {
	return d.time().Before(other.time())
}

// Start returns midnight of d in loc
func (d Date) Start(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := d.time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
