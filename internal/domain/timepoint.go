package domain

import "time"

// TimeKind distinguishes the two temporal representations an event bound
// can have: an absolute instant, or a calendar date for whole-day events.
type TimeKind int

const (
	KindInstant TimeKind = iota
	KindDate
)

func (k TimeKind) String() string {
	if k == KindDate {
		return "date"
	}
	return "instant"
}

// TimePoint is a tagged time value. Instant points carry a full timestamp;
// date points carry midnight of the calendar day and are only meaningful
// day-by-day.
type TimePoint struct {
	Kind TimeKind
	t    time.Time
}

// Instant wraps an absolute timestamp. The location is preserved so that
// coercion to a calendar date uses the timestamp's own wall clock.
func Instant(t time.Time) TimePoint {
	return TimePoint{Kind: KindInstant, t: t}
}

// Date builds a date-only point at midnight UTC of the given day.
func Date(year int, month time.Month, day int) TimePoint {
	return TimePoint{Kind: KindDate, t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf coerces a timestamp to the calendar date it falls on, evaluated
// in the timestamp's own location.
func DateOf(t time.Time) TimePoint {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Time returns the underlying timestamp (midnight for date points).
func (p TimePoint) Time() time.Time { return p.t }

func (p TimePoint) IsZero() bool { return p.t.IsZero() }

func (p TimePoint) Before(q TimePoint) bool { return p.t.Before(q.t) }

func (p TimePoint) After(q TimePoint) bool { return p.t.After(q.t) }

func (p TimePoint) Sub(q TimePoint) time.Duration { return p.t.Sub(q.t) }

// asDate collapses an instant to its calendar date; date points pass
// through unchanged.
func (p TimePoint) asDate() TimePoint {
	if p.Kind == KindDate {
		return p
	}
	return DateOf(p.t)
}
