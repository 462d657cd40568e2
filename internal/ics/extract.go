package ics

import (
	"strings"

	"availcal/internal/domain"
)

// DefaultFields are the VEVENT fields copied verbatim into a field set.
var DefaultFields = []string{
	domain.FieldUID,
	domain.FieldSummary,
	domain.FieldCategories,
	domain.FieldLocation,
	domain.FieldTransp,
}

const (
	beginMarker    = "BEGIN"
	endMarker      = "END"
	eventComponent = "VEVENT"
	paramValueDate = "VALUE=DATE"
	paramTZPrefix  = "TZID="
)

// Extractor reconstructs event field sets from the line-oriented text of
// a CalDAV export. It is a two-state machine: outside a record every
// field line is ignored; inside one, recognized fields and normalized
// time bounds accumulate until the matching END marker closes the record.
type Extractor struct {
	fields map[string]bool
	layout string
}

// NewExtractor builds an extractor for the given field names; nil selects
// DefaultFields.
func NewExtractor(fields []string) *Extractor {
	if fields == nil {
		fields = DefaultFields
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return &Extractor{fields: set, layout: TimestampLayout}
}

// Extract scans lines sequentially and returns one field set per
// completed VEVENT, in source order. Individual malformed lines are
// dropped without aborting their record; a trailing record with no END
// marker is discarded.
func (x *Extractor) Extract(lines []string) []domain.FieldSet {
	var (
		records []domain.FieldSet
		current *domain.FieldSet
	)
	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch {
		case name == beginMarker && value == eventComponent:
			current = &domain.FieldSet{Text: make(map[string]string)}
		case current == nil:
			// Field line outside an open record.
		case name == endMarker && value == eventComponent:
			records = append(records, *current)
			current = nil
		case x.fields[name]:
			current.Text[name] = value
		case strings.HasPrefix(name, domain.FieldEnd) || strings.HasPrefix(name, domain.FieldStart):
			x.setBound(current, name, value)
		}
	}
	return records
}

// setBound routes a DTSTART/DTEND line through the normalizer. A
// VALUE=DATE parameter yields a date-only bound, a TZID parameter an
// instant; a line with neither, or whose value fails to parse, is
// dropped and the record keeps accumulating.
func (x *Extractor) setBound(fs *domain.FieldSet, name, value string) {
	parts := strings.Split(name, ";")
	var bound domain.TimePoint
	for _, param := range parts[1:] {
		if param == paramValueDate {
			p, err := NormalizeDate(value)
			if err != nil {
				return
			}
			bound = p
			break
		}
		if strings.HasPrefix(param, paramTZPrefix) {
			t, err := NormalizeTimestamp(param, value, x.layout)
			if err != nil {
				return
			}
			bound = domain.Instant(t)
			break
		}
	}
	if bound.IsZero() {
		return
	}
	switch parts[0] {
	case domain.FieldStart:
		fs.Start = bound
	case domain.FieldEnd:
		fs.End = bound
	}
}
