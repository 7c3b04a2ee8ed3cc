package interval

import "time"

// TimeInterval is a half-open time range [Start, End). Invariant: Start < End.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not count as overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Duration returns the length of the interval.
func Duration(a TimeInterval) time.Duration {
	return a.End.Sub(a.Start)
}

// Minutes returns the interval length in whole minutes.
func Minutes(a TimeInterval) int {
	return int(Duration(a) / time.Minute)
}

// BusyInterval is an occupied range on a calendar. Source identifies where
// the interval came from; it is diagnostic only and never used in slot logic.
type BusyInterval struct {
	TimeInterval
	Source string `json:"source,omitempty"`
}

// FreeSlot is a schedulable candidate range. Date is the calendar date the
// slot begins on, formatted YYYY-MM-DD. Slots exist only as query responses.
type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Date  string    `json:"date"`
}

// Interval returns the slot's range for overlap checks.
func (s FreeSlot) Interval() TimeInterval {
	return TimeInterval{Start: s.Start, End: s.End}
}
