package domain

import (
	"fmt"
	"strings"
	"time"
)

// Thresholds are the busy-ratio boundaries used to classify a block.
type Thresholds struct {
	Low  float64
	High float64
}

// DefaultThresholds match the original calendar deployment.
var DefaultThresholds = Thresholds{Low: 0.20, High: 0.75}

// Classification labels appended by Classify.
const (
	ClassUnavailable = "unavailable"
	ClassHigh        = "high"
	ClassMedium      = "medium"
	ClassLow         = "low"
)

// Categories that mark a whole block as not-working time regardless of
// how much of it is assigned.
var offCategories = map[string]bool{
	"Leave": true,
	"Off":   true,
}

// Block is one fixed-length slot of a day's active window. Blocks are
// built empty by BuildGrid and mutated in place as events are attributed
// to them.
type Block struct {
	Start      time.Time
	End        time.Time
	Length     time.Duration
	Busy       time.Duration
	Free       time.Duration
	Assigned   float64
	Classes    []string
	Locations  []string
	Categories []string
}

// NewBlock builds an empty block: all of its length is free.
func NewBlock(start, end time.Time) *Block {
	length := end.Sub(start)
	return &Block{
		Start:  start,
		End:    end,
		Length: length,
		Free:   length,
	}
}

// Bounds implements Span. Block bounds are always instants.
func (b *Block) Bounds() (TimePoint, TimePoint) {
	return Instant(b.Start), Instant(b.End)
}

// Assign adds an event's overlap to the block. Busy time accumulates only
// for non-transparent events; location and categories merge either way.
// Busy is clamped to the block length and the assigned ratio to 1.0, so
// overlapping events cannot drive the block past fully booked.
func (b *Block) Assign(ev *Event, d time.Duration) {
	if ev.Transparency != TranspTransparent {
		b.Busy += d
		if b.Busy > b.Length {
			b.Busy = b.Length
		}
		b.Free = b.Length - b.Busy
		if b.Free < 0 {
			b.Free = 0
		}
		b.Assigned = float64(b.Busy) / float64(b.Length)
		if b.Assigned > 1 {
			b.Assigned = 1
		}
	}
	if ev.Location != "" && !containsString(b.Locations, ev.Location) {
		b.Locations = append(b.Locations, ev.Location)
	}
	for _, c := range ev.Categories {
		if !containsString(b.Categories, c) {
			b.Categories = append(b.Categories, c)
		}
	}
}

// Classify appends exactly one label based on the assigned ratio. A
// "Leave" or "Off" category overrides the ratio and labels the block
// unavailable. Labels are append-only: classifying twice appends twice.
func (b *Block) Classify(th Thresholds) {
	switch {
	case b.offWork():
		b.Classes = append(b.Classes, ClassUnavailable)
	case b.Assigned > th.High:
		b.Classes = append(b.Classes, ClassHigh)
	case b.Assigned > th.Low:
		b.Classes = append(b.Classes, ClassMedium)
	default:
		b.Classes = append(b.Classes, ClassLow)
	}
}

func (b *Block) offWork() bool {
	for _, c := range b.Categories {
		if offCategories[c] {
			return true
		}
	}
	return false
}

func (b *Block) String() string {
	return fmt.Sprintf("%s (%s)", b.Start.Format("2006-01-02"), strings.Join(b.Locations, ", "))
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
