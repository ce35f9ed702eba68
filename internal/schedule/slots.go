package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used across the API and the database.
const DateLayout = "2006-01-02"

// SlotStep is the fixed distance, in minutes, between candidate booking slots.
const SlotStep = 15

// Interval is a half-open [Start, End) time range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any minute.
// Touching endpoints (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// ParseClock converts a zero-padded "HH:MM" string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Weekday returns the day of week for a "YYYY-MM-DD" date, 0=Sunday..6=Saturday.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// FreeSlots walks candidate start times from open to close in SlotStep
// increments and returns, as "HH:MM" strings in increasing order, every start
// where a booking of the given duration fits entirely inside [open, close]
// and overlaps none of the busy intervals.
func FreeSlots(open, close, duration int, busy []Interval) []string {
	slots := []string{}
	if duration <= 0 {
		return slots
	}
	for start := open; start+duration <= close; start += SlotStep {
		candidate := Interval{Start: start, End: start + duration}
		if !overlapsAny(candidate, busy) {
			slots = append(slots, FormatClock(start))
		}
	}
	return slots
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
