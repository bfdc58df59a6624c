// Package booking holds the hall/day collision check shared by the
// create and update handlers.  The check is a pure read: it fetches the
// candidate events for a hall, normalizes every date to a UTC calendar
// day and compares day strings.  The events table additionally carries a
// unique index on (hall_id, event_day), so this pre-check only exists to
// produce a friendly error message; the index is the authoritative guard
// against concurrent writers.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/eventspace/hall-booking/internal/model"
)

// ErrInvalidDate is returned when the target date cannot be interpreted
// as a valid instant.  An invalid input is a distinct failure, never a
// silent "no conflict".
var ErrInvalidDate = errors.New("invalid date")

// HallEvents is the slice of the store the validator needs: all events
// booked into one hall, optionally excluding a single event id (used by
// update so a record never conflicts with itself).  The repository
// satisfies this; tests use an in-memory fake.
type HallEvents interface {
	ListByHall(ctx context.Context, hallID string, excludeID uint64) ([]model.Event, error)
}

// ConflictResult reports the outcome of a conflict check.  When Conflict
// is true, Event points at the booking already occupying the hall/day.
type ConflictResult struct {
	Conflict bool
	Event    *model.Event
}

// Validator decides whether a hall/date combination is free to book.
type Validator struct {
	store HallEvents
}

// NewValidator returns a Validator reading candidate events from store.
func NewValidator(store HallEvents) *Validator {
	return &Validator{store: store}
}

// DayKey normalizes an instant to its UTC calendar day as a YYYY-MM-DD
// string.  Both stored and incoming dates go through this one function
// so the comparison can never mix timezones.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CheckConflict reports whether another event already occupies hallID on
// the UTC calendar day of target.  excludeID, when non-zero, removes the
// event being updated from the scan.  Events whose stored date is the
// zero value are skipped rather than treated as conflicts.
func (v *Validator) CheckConflict(ctx context.Context, hallID string, target time.Time, excludeID uint64) (ConflictResult, error) {
	if hallID == "" || target.IsZero() {
		return ConflictResult{}, ErrInvalidDate
	}
	events, err := v.store.ListByHall(ctx, hallID, excludeID)
	if err != nil {
		return ConflictResult{}, err
	}
	day := DayKey(target)
	for i := range events {
		if events[i].Date.IsZero() {
			continue
		}
		if DayKey(events[i].Date) == day {
			return ConflictResult{Conflict: true, Event: &events[i]}, nil
		}
	}
	return ConflictResult{}, nil
}
