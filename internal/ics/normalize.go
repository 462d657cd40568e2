package ics

import (
	"fmt"
	"strings"
	"time"

	"availcal/internal/domain"
)

// Timestamp layouts found in CalDAV exports.
const (
	TimestampLayout = "20060102T150405"
	DateLayout      = "20060102"
)

// MalformedTimestampError is returned when a timestamp or date value does
// not match its expected layout.
type MalformedTimestampError struct {
	Value  string
	Layout string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("timestamp %q does not match layout %s", e.Value, e.Layout)
}

// UnknownTimezoneError is returned when a TZID names a zone the system's
// timezone database does not recognize.
type UnknownTimezoneError struct {
	Name string
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q", e.Name)
}

// NormalizeTimestamp interprets a wall-clock timestamp in the named zone
// and returns the equivalent UTC instant. The zone rules resolve DST for
// the given date, so the same local hour maps to different UTC offsets
// across a DST boundary. The zone may be given bare
// ("Australia/Melbourne") or as a property parameter
// ("TZID=Australia/Melbourne"). An empty layout selects TimestampLayout.
func NormalizeTimestamp(tzID, value, layout string) (time.Time, error) {
	if layout == "" {
		layout = TimestampLayout
	}
	name := strings.TrimPrefix(tzID, "TZID=")
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Time{}, &UnknownTimezoneError{Name: name}
	}
	local, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, &MalformedTimestampError{Value: value, Layout: layout}
	}
	return local.UTC(), nil
}

// NormalizeDate parses a bare calendar date (no time-of-day, no zone)
// into a date-only bound. Whole-day events keep date bounds rather than
// being widened to instants.
func NormalizeDate(value string) (domain.TimePoint, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return domain.TimePoint{}, &MalformedTimestampError{Value: value, Layout: DateLayout}
	}
	return domain.DateOf(t), nil
}
