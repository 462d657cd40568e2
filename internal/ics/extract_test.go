package ics

import (
	"testing"
	"time"

	"availcal/internal/domain"
)

var sampleCalendar = []string{
	"BEGIN:VCALENDAR",
	"CALSCALE:GREGORIAN",
	"BEGIN:VEVENT",
	"UID:evt-1",
	"DTSTART;VALUE=DATE-TIME;TZID=Australia/Melbourne:20170201T120000",
	"DTEND;VALUE=DATE-TIME;TZID=Australia/Melbourne:20170201T140000",
	"SUMMARY:Design review",
	"LOCATION:Melbourne",
	"TRANSP:OPAQUE",
	"CATEGORIES:ClientA Onsite",
	"STATUS:CONFIRMED",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:evt-2",
	"DTSTART;VALUE=DATE:20170203",
	"DTEND;VALUE=DATE:20170204",
	"SUMMARY:Conference",
	"END:VEVENT",
	"BEGIN:VTIMEZONE",
	"TZID:Australia/Melbourne",
	"END:VTIMEZONE",
	"END:VCALENDAR",
}

func TestExtract(t *testing.T) {
	records := NewExtractor(nil).Extract(sampleCalendar)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	timed := records[0]
	if got := timed.Text[domain.FieldUID]; got != "evt-1" {
		t.Errorf("UID = %q, want evt-1", got)
	}
	if got := timed.Text[domain.FieldSummary]; got != "Design review" {
		t.Errorf("SUMMARY = %q, want Design review", got)
	}
	if got := timed.Text[domain.FieldCategories]; got != "ClientA Onsite" {
		t.Errorf("CATEGORIES = %q, want ClientA Onsite", got)
	}
	if _, ok := timed.Text["STATUS"]; ok {
		t.Error("STATUS is not a recognized field and must not be stored")
	}
	if timed.Start.Kind != domain.KindInstant {
		t.Errorf("start kind = %v, want instant", timed.Start.Kind)
	}
	// 12:00 in Melbourne during DST is 01:00 UTC.
	wantStart := time.Date(2017, 2, 1, 1, 0, 0, 0, time.UTC)
	if !timed.Start.Time().Equal(wantStart) {
		t.Errorf("start = %v, want %v", timed.Start.Time(), wantStart)
	}

	allDay := records[1]
	if allDay.Start.Kind != domain.KindDate || allDay.End.Kind != domain.KindDate {
		t.Errorf("whole-day bounds must be dates, got %v/%v", allDay.Start.Kind, allDay.End.Kind)
	}
	wantDate := time.Date(2017, 2, 3, 0, 0, 0, 0, time.UTC)
	if !allDay.Start.Time().Equal(wantDate) {
		t.Errorf("whole-day start = %v, want %v", allDay.Start.Time(), wantDate)
	}
}

func TestExtractIgnoresFieldsOutsideRecords(t *testing.T) {
	lines := []string{
		"UID:stray",
		"SUMMARY:stray summary",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"END:VEVENT",
	}
	records := NewExtractor(nil).Extract(lines)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Text[domain.FieldUID]; got != "evt-1" {
		t.Errorf("UID = %q, want evt-1", got)
	}
}

func TestExtractDropsUnterminatedRecord(t *testing.T) {
	lines := []string{
		"BEGIN:VEVENT",
		"UID:evt-1",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2",
	}
	records := NewExtractor(nil).Extract(lines)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (trailing record has no END marker)", len(records))
	}
}

func TestExtractDropsBadLinesNotRecords(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"malformed timestamp", "DTSTART;TZID=Australia/Melbourne:garbage"},
		{"unknown timezone", "DTSTART;TZID=Atlantis/Lost_City:20170201T120000"},
		{"no usable parameter", "DTSTART:20170201T120000Z"},
		{"malformed date", "DTSTART;VALUE=DATE:garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{
				"BEGIN:VEVENT",
				"UID:evt-1",
				tt.line,
				"SUMMARY:Still here",
				"END:VEVENT",
			}
			records := NewExtractor(nil).Extract(lines)
			if len(records) != 1 {
				t.Fatalf("got %d records, want 1 (bad line must not abort the record)", len(records))
			}
			if !records[0].Start.IsZero() {
				t.Errorf("start = %v, want unset", records[0].Start.Time())
			}
			if got := records[0].Text[domain.FieldSummary]; got != "Still here" {
				t.Errorf("SUMMARY = %q, later fields must survive a dropped line", got)
			}
		})
	}
}

func TestExtractCRLF(t *testing.T) {
	lines := []string{
		"BEGIN:VEVENT\r\n",
		"UID:evt-1\r\n",
		"END:VEVENT\r\n",
	}
	records := NewExtractor(nil).Extract(lines)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if got := records[0].Text[domain.FieldUID]; got != "evt-1" {
		t.Errorf("UID = %q, want evt-1", got)
	}
}
