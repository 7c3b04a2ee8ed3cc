package availability

import (
	"errors"
	"fmt"
	"time"

	intervalx "github.com/calendon/schedpilot/agent/interval"
)

// ErrInvalidQuery marks a query that violates its invariants. It is a
// configuration error: callers are expected to validate before exposing a
// query path to user input.
var ErrInvalidQuery = errors.New("invalid scheduling query")

const (
	// Candidate windows advance in fixed 30-minute steps.
	slotStride = 30 * time.Minute

	// Hard cap on returned slots per query.
	maxSlots = 20

	DefaultDurationMinutes = 60
	DefaultDaysAhead       = 7
	DefaultWorkStartHour   = 9
	DefaultWorkEndHour     = 17
)

// Query describes one free-slot search. Now is the caller-supplied anchor
// instant; the engine never reads the wall clock itself.
type Query struct {
	DurationMinutes int
	DaysAhead       int
	WorkStartHour   int
	WorkEndHour     int
	Now             time.Time
}

// NewQuery returns a query with the standard working-hours defaults.
func NewQuery(durationMinutes, daysAhead int, now time.Time) Query {
	return Query{
		DurationMinutes: durationMinutes,
		DaysAhead:       daysAhead,
		WorkStartHour:   DefaultWorkStartHour,
		WorkEndHour:     DefaultWorkEndHour,
		Now:             now,
	}
}

// Validate checks the query invariants.
func (q Query) Validate() error {
	if q.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive, got %d", ErrInvalidQuery, q.DurationMinutes)
	}
	if q.DaysAhead < 1 {
		return fmt.Errorf("%w: days_ahead must be at least 1, got %d", ErrInvalidQuery, q.DaysAhead)
	}
	if q.WorkStartHour < 0 || q.WorkStartHour >= q.WorkEndHour || q.WorkEndHour > 24 {
		return fmt.Errorf("%w: working hours [%d, %d) out of range", ErrInvalidQuery, q.WorkStartHour, q.WorkEndHour)
	}
	if q.Now.IsZero() {
		return fmt.Errorf("%w: anchor instant is required", ErrInvalidQuery)
	}
	return nil
}

// FindFreeSlots scans the working-hours windows of the next DaysAhead days
// and returns every candidate of DurationMinutes length that overlaps no
// busy interval, in chronological order, capped at 20 slots.
//
// The first day's window is clamped forward to q.Now so no slot starts in
// the past. The overlap test is deliberately O(candidates x busy); at this
// scale interval merging buys nothing. The function never mutates busy and
// is deterministic for a given (busy, q).
func FindFreeSlots(busy []intervalx.BusyInterval, q Query) ([]intervalx.FreeSlot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	duration := time.Duration(q.DurationMinutes) * time.Minute
	loc := q.Now.Location()

	var slots []intervalx.FreeSlot
	for d := 0; d < q.DaysAhead; d++ {
		day := q.Now.AddDate(0, 0, d)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), q.WorkStartHour, 0, 0, 0, loc)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), q.WorkEndHour, 0, 0, 0, loc)

		// Never propose a slot fully or partially in the past.
		if dayStart.Before(q.Now) {
			dayStart = q.Now
		}

		for t := dayStart; !t.Add(duration).After(dayEnd); t = t.Add(slotStride) {
			candidate := intervalx.TimeInterval{Start: t, End: t.Add(duration)}
			if overlapsAny(candidate, busy) {
				continue
			}
			slots = append(slots, intervalx.FreeSlot{
				Start: candidate.Start,
				End:   candidate.End,
				Date:  candidate.Start.Format("2006-01-02"),
			})
		}

		if len(slots) >= maxSlots {
			break
		}
	}

	if len(slots) > maxSlots {
		slots = slots[:maxSlots]
	}
	return slots, nil
}

func overlapsAny(candidate intervalx.TimeInterval, busy []intervalx.BusyInterval) bool {
	for _, b := range busy {
		if intervalx.Overlaps(candidate, b.TimeInterval) {
			return true
		}
	}
	return false
}
