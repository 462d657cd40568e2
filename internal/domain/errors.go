package domain

import "fmt"

// MissingFieldError is returned when a calendar record lacks one of the
// fields required to build an Event.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("event record is missing required field %s", e.Field)
}

// InvalidIntervalError is returned when an event's time bounds are
// unusable: start not strictly before end, or instant and date bounds
// mixed within one event.
type InvalidIntervalError struct {
	Start  TimePoint
	End    TimePoint
	Reason string
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid event interval [%s, %s]: %s",
		e.Start.Time().Format("2006-01-02T15:04:05Z07:00"),
		e.End.Time().Format("2006-01-02T15:04:05Z07:00"),
		e.Reason)
}

// InvalidWindowError is returned by BuildGrid when the daily active-hours
// window or the block length cannot produce a valid grid. It is fatal for
// the whole run.
type InvalidWindowError struct {
	DayStart    int
	DayEnd      int
	BlockLength int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid block window: day %02d:00-%02d:00, block length %dh",
		e.DayStart, e.DayEnd, e.BlockLength)
}
