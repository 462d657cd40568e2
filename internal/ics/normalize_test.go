package ics

import (
	"errors"
	"testing"
	"time"

	"availcal/internal/domain"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		tzID  string
		value string
		want  time.Time
	}{
		{
			name:  "melbourne winter (no DST)",
			tzID:  "Australia/Melbourne",
			value: "20170610T140000",
			want:  time.Date(2017, 6, 10, 4, 0, 0, 0, time.UTC),
		},
		{
			name:  "melbourne summer (DST)",
			tzID:  "Australia/Melbourne",
			value: "20170210T140000",
			want:  time.Date(2017, 2, 10, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "TZID parameter form",
			tzID:  "TZID=Australia/Melbourne",
			value: "20170210T140000",
			want:  time.Date(2017, 2, 10, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "hong kong",
			tzID:  "Asia/Hong_Kong",
			value: "20170210T140000",
			want:  time.Date(2017, 2, 10, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTimestamp(tt.tzID, tt.value, "")
			if err != nil {
				t.Fatalf("NormalizeTimestamp() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NormalizeTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestampUnknownTimezone(t *testing.T) {
	_, err := NormalizeTimestamp("Atlantis/Lost_City", "20170210T140000", "")
	var tzErr *UnknownTimezoneError
	if !errors.As(err, &tzErr) {
		t.Fatalf("expected UnknownTimezoneError, got %v", err)
	}
	if tzErr.Name != "Atlantis/Lost_City" {
		t.Errorf("error names zone %q, want Atlantis/Lost_City", tzErr.Name)
	}
}

func TestNormalizeTimestampMalformed(t *testing.T) {
	for _, value := range []string{"2017-02-10 14:00:00", "20170210", "not a timestamp"} {
		_, err := NormalizeTimestamp("Australia/Melbourne", value, "")
		var tsErr *MalformedTimestampError
		if !errors.As(err, &tsErr) {
			t.Errorf("value %q: expected MalformedTimestampError, got %v", value, err)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("20170201")
	if err != nil {
		t.Fatalf("NormalizeDate() error = %v", err)
	}
	if got.Kind != domain.KindDate {
		t.Errorf("kind = %v, want date", got.Kind)
	}
	want := time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.Time().Equal(want) {
		t.Errorf("NormalizeDate() = %v, want %v", got.Time(), want)
	}
}

func TestNormalizeDateMalformed(t *testing.T) {
	_, err := NormalizeDate("2017-02-01")
	var tsErr *MalformedTimestampError
	if !errors.As(err, &tsErr) {
		t.Fatalf("expected MalformedTimestampError, got %v", err)
	}
}
