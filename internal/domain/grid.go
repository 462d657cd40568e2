package domain

import "time"

// BuildGrid produces the ordered sequence of blocks covering the period.
// Each day contributes blocks from dayStart to dayEnd o'clock in loc; when
// the window is not an exact multiple of blockLen hours the day's last
// block is truncated at dayEnd rather than overrunning the window.
// Generation stops once a block would start at or after dayEnd on the
// period's last day.
func BuildGrid(periodStart, periodEnd time.Time, dayStart, dayEnd, blockLen int, loc *time.Location) ([]*Block, error) {
	if dayEnd <= dayStart || blockLen <= 0 {
		return nil, &InvalidWindowError{DayStart: dayStart, DayEnd: dayEnd, BlockLength: blockLen}
	}
	if loc == nil {
		loc = time.UTC
	}

	step := time.Duration(blockLen) * time.Hour
	endOfPeriod := atHour(periodEnd.In(loc), dayEnd, loc)

	var blocks []*Block
	for day := periodStart.In(loc); ; day = day.AddDate(0, 0, 1) {
		start := atHour(day, dayStart, loc)
		if !start.Before(endOfPeriod) {
			return blocks, nil
		}
		windowEnd := atHour(day, dayEnd, loc)
		for start.Before(windowEnd) && start.Before(endOfPeriod) {
			end := start.Add(step)
			if end.After(windowEnd) {
				end = windowEnd
			}
			blocks = append(blocks, NewBlock(start, end))
			start = start.Add(step)
		}
	}
}

// atHour anchors t's calendar day at the given whole hour in loc.
func atHour(t time.Time, hour int, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, loc)
}
