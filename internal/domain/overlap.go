package domain

import "time"

// Span is anything with a start/end pair: events and blocks. Both bounds
// of one span are always the same kind.
type Span interface {
	Bounds() (start, end TimePoint)
}

// Overlaps reports whether two spans share time. For same-kind spans the
// test is closed-interval start containment in either direction, so spans
// that merely touch at a boundary still count as overlapping (with zero
// duration). For mixed kinds the instant side is coerced to its calendar
// date and date intervals are treated end-exclusive: a whole-day event
// from the 1st to the 2nd spans the 1st only.
func Overlaps(a, b Span) bool {
	as, ae := a.Bounds()
	bs, be := b.Bounds()
	if as.Kind == bs.Kind {
		return within(bs, as, ae) || within(as, bs, be)
	}
	as, ae = as.asDate(), ae.asDate()
	bs, be = bs.asDate(), be.asDate()
	return dateWithin(bs, as, ae) || dateWithin(as, bs, be)
}

// OverlapDuration computes how much time two overlapping spans share.
// Same-kind spans get the exact intersection. For mixed kinds the result
// is the shorter of the two spans' own lengths: either the timed block
// falls wholly inside the whole-day event, or the day marker fills the
// block. This is a deliberate approximation carried over from the
// original program; callers depend on it, so it is not a true sub-day
// intersection.
func OverlapDuration(a, b Span) time.Duration {
	as, ae := a.Bounds()
	bs, be := b.Bounds()
	if as.Kind != bs.Kind {
		da := ae.Sub(as)
		db := be.Sub(bs)
		if da < db {
			return da
		}
		return db
	}
	start := as
	if bs.After(start) {
		start = bs
	}
	end := ae
	if be.Before(end) {
		end = be
	}
	return end.Sub(start)
}

// within reports whether p lies in the closed interval [s, e].
func within(p, s, e TimePoint) bool {
	return !p.Before(s) && !p.After(e)
}

// dateWithin reports whether p lies in the half-open date interval [s, e).
func dateWithin(p, s, e TimePoint) bool {
	return !p.Before(s) && p.Before(e)
}
