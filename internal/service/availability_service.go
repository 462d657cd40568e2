package service

import (
	"log"
	"time"

	"availcal/internal/domain"
	"availcal/internal/ics"
)

// Params are the typed inputs of one availability computation.
type Params struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	DayStart    int
	DayEnd      int
	BlockLength int
	Timezone    *time.Location
	Thresholds  domain.Thresholds
}

// AvailabilityService turns raw calendar text into a classified block
// grid. It owns no I/O; retrieval and serialization live with the caller.
type AvailabilityService struct {
	extractor *ics.Extractor
}

// NewAvailabilityService creates a service using the default field list.
func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{extractor: ics.NewExtractor(nil)}
}

// BuildEvents extracts records from raw lines and validates each into an
// Event. Records that fail validation are excluded and their errors
// returned alongside the usable events.
func (s *AvailabilityService) BuildEvents(lines []string) ([]*domain.Event, []error) {
	var (
		events []*domain.Event
		errs   []error
	)
	for _, fs := range s.extractor.Extract(lines) {
		ev, err := domain.NewEvent(fs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

// Compute runs the full pipeline: extract events, build the block grid,
// attribute overlapping event time, classify. Malformed records are
// logged and skipped; a bad grid window aborts the run.
func (s *AvailabilityService) Compute(lines []string, p Params) ([]*domain.Block, error) {
	events, errs := s.BuildEvents(lines)
	for _, err := range errs {
		log.Printf("Skipping calendar record: %v", err)
	}

	blocks, err := domain.BuildGrid(p.PeriodStart, p.PeriodEnd, p.DayStart, p.DayEnd, p.BlockLength, p.Timezone)
	if err != nil {
		return nil, err
	}

	domain.Attribute(events, blocks)
	domain.ClassifyAll(blocks, p.Thresholds)
	return blocks, nil
}
