package service

import (
	"errors"
	"testing"
	"time"

	"availcal/internal/domain"
)

var calendarLines = []string{
	"BEGIN:VCALENDAR",
	"CALSCALE:GREGORIAN",
	"BEGIN:VEVENT",
	"UID:evt-timed",
	"DTSTART;VALUE=DATE-TIME;TZID=UTC:20170201T100000",
	"DTEND;VALUE=DATE-TIME;TZID=UTC:20170201T133000",
	"SUMMARY:Client workshop",
	"LOCATION:Melbourne",
	"CATEGORIES:ClientA",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:evt-free",
	"DTSTART;VALUE=DATE-TIME;TZID=UTC:20170202T060000",
	"DTEND;VALUE=DATE-TIME;TZID=UTC:20170202T220000",
	"SUMMARY:Tentative hold",
	"TRANSP:TRANSPARENT",
	"CATEGORIES:Hold",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:evt-zero-length",
	"DTSTART;VALUE=DATE-TIME;TZID=UTC:20170201T120000",
	"DTEND;VALUE=DATE-TIME;TZID=UTC:20170201T120000",
	"SUMMARY:Broken",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"SUMMARY:No identifier",
	"DTSTART;VALUE=DATE-TIME;TZID=UTC:20170201T150000",
	"DTEND;VALUE=DATE-TIME;TZID=UTC:20170201T160000",
	"END:VEVENT",
	"END:VCALENDAR",
}

func TestBuildEvents(t *testing.T) {
	svc := NewAvailabilityService()
	events, errs := svc.BuildEvents(calendarLines)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (malformed records excluded)", len(events))
	}
	if events[0].UID != "evt-timed" || events[1].UID != "evt-free" {
		t.Errorf("events = %s, %s; want evt-timed, evt-free", events[0].UID, events[1].UID)
	}

	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	var invalid *domain.InvalidIntervalError
	if !errors.As(errs[0], &invalid) {
		t.Errorf("first error = %v, want InvalidIntervalError", errs[0])
	}
	var missing *domain.MissingFieldError
	if !errors.As(errs[1], &missing) {
		t.Errorf("second error = %v, want MissingFieldError", errs[1])
	}
	if missing != nil && missing.Field != domain.FieldUID {
		t.Errorf("missing field = %q, want UID", missing.Field)
	}
}

func TestCompute(t *testing.T) {
	svc := NewAvailabilityService()
	blocks, err := svc.Compute(calendarLines, Params{
		PeriodStart: time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2017, 2, 2, 0, 0, 0, 0, time.UTC),
		DayStart:    6,
		DayEnd:      22,
		BlockLength: 4,
		Timezone:    time.UTC,
		Thresholds:  domain.DefaultThresholds,
	})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(blocks) != 8 {
		t.Fatalf("got %d blocks, want 8", len(blocks))
	}

	for i, b := range blocks {
		if len(b.Classes) != 1 {
			t.Fatalf("block %d: %d labels, want 1", i, len(b.Classes))
		}
	}

	// Feb 1: the workshop fills 10:00-13:30.
	if got := blocks[1].Classes[0]; got != domain.ClassHigh {
		t.Errorf("block 10:00-14:00 class = %s, want high", got)
	}
	if got := blocks[1].Locations; len(got) != 1 || got[0] != "Melbourne" {
		t.Errorf("block locations = %v, want [Melbourne]", got)
	}

	// Feb 2: the transparent hold spans the whole day but adds no busy
	// time, only its category.
	feb2 := blocks[4:]
	for i, b := range feb2 {
		if b.Busy != 0 {
			t.Errorf("feb 2 block %d: busy = %v, transparent event must not count", i, b.Busy)
		}
		if b.Classes[0] != domain.ClassLow {
			t.Errorf("feb 2 block %d: class = %s, want low", i, b.Classes[0])
		}
		if len(b.Categories) != 1 || b.Categories[0] != "Hold" {
			t.Errorf("feb 2 block %d: categories = %v, want [Hold]", i, b.Categories)
		}
	}
}

func TestComputeInvalidWindow(t *testing.T) {
	svc := NewAvailabilityService()
	_, err := svc.Compute(nil, Params{
		PeriodStart: time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2017, 2, 2, 0, 0, 0, 0, time.UTC),
		DayStart:    22,
		DayEnd:      6,
		BlockLength: 4,
		Timezone:    time.UTC,
		Thresholds:  domain.DefaultThresholds,
	})
	var winErr *domain.InvalidWindowError
	if !errors.As(err, &winErr) {
		t.Fatalf("expected InvalidWindowError, got %v", err)
	}
}
