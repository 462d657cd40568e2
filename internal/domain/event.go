package domain

import (
	"fmt"
	"strings"
	"time"
)

// VEVENT field names recognized during extraction.
const (
	FieldUID        = "UID"
	FieldSummary    = "SUMMARY"
	FieldStart      = "DTSTART"
	FieldEnd        = "DTEND"
	FieldTransp     = "TRANSP"
	FieldLocation   = "LOCATION"
	FieldCategories = "CATEGORIES"
)

// TranspTransparent marks events shown as "free" in the source calendar.
// They contribute metadata to overlapping blocks but no busy time.
const TranspTransparent = "TRANSPARENT"

// FieldSet is one extracted VEVENT record: the verbatim text fields plus
// the normalized start and end bounds.
type FieldSet struct {
	Text  map[string]string
	Start TimePoint
	End   TimePoint
}

// Event is one calendar entry relevant to availability. Both bounds are
// the same kind: instants for timed events, dates for whole-day events.
// Events are immutable once constructed.
type Event struct {
	UID          string
	Name         string
	Start        TimePoint
	End          TimePoint
	Length       time.Duration
	Transparency string
	Location     string
	Categories   []string
}

// NewEvent validates an extracted field set and builds an Event.
func NewEvent(fs FieldSet) (*Event, error) {
	uid, ok := fs.Text[FieldUID]
	if !ok {
		return nil, &MissingFieldError{Field: FieldUID}
	}
	name, ok := fs.Text[FieldSummary]
	if !ok {
		return nil, &MissingFieldError{Field: FieldSummary}
	}
	if fs.Start.IsZero() {
		return nil, &MissingFieldError{Field: FieldStart}
	}
	if fs.End.IsZero() {
		return nil, &MissingFieldError{Field: FieldEnd}
	}
	if fs.Start.Kind != fs.End.Kind {
		return nil, &InvalidIntervalError{Start: fs.Start, End: fs.End,
			Reason: fmt.Sprintf("mixed %s and %s bounds", fs.Start.Kind, fs.End.Kind)}
	}
	if !fs.Start.Before(fs.End) {
		return nil, &InvalidIntervalError{Start: fs.Start, End: fs.End,
			Reason: "start must be strictly before end"}
	}

	return &Event{
		UID:          uid,
		Name:         name,
		Start:        fs.Start,
		End:          fs.End,
		Length:       fs.End.Sub(fs.Start),
		Transparency: fs.Text[FieldTransp],
		Location:     fs.Text[FieldLocation],
		Categories:   strings.Fields(fs.Text[FieldCategories]),
	}, nil
}

// Bounds implements Span.
func (e *Event) Bounds() (TimePoint, TimePoint) { return e.Start, e.End }

func (e *Event) String() string {
	return fmt.Sprintf("%s (%s)", e.Name, e.Start.Time().Format("02-January 2006"))
}
