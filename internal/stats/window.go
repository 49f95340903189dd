package stats

import (
	"errors"
	"time"

	"github.com/tkarimov/cryptostats/internal/model"
)

// Unit selects day or month arithmetic for window resolution.
type Unit int

const (
	UnitDay Unit = iota
	UnitMonth
)

// ErrZeroOffset rejects windows that would change nothing.
var ErrZeroOffset = errors.New("days or months value must not be zero")

// ResolveWindow maps an anchor date and a signed offset to a half-open
// [start, end) window, always with start <= end.
//
// Forward offsets start at UTC midnight of the anchor day; backward offsets
// start at the last nanosecond of the anchor day, so "last N days/months"
// covers the anchor day in full while "next N" excludes it from the prior
// period.
func ResolveWindow(anchor time.Time, offset int, unit Unit) (model.TimeWindow, error) {
	if offset == 0 {
		return model.TimeWindow{}, ErrZeroOffset
	}

	y, m, d := anchor.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if offset < 0 {
		base = base.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	var shifted time.Time
	switch unit {
	case UnitMonth:
		shifted = addMonths(base, offset)
	default:
		shifted = base.AddDate(0, 0, offset)
	}

	if shifted.Before(base) {
		return model.TimeWindow{Start: shifted, End: base}, nil
	}
	return model.TimeWindow{Start: base, End: shifted}, nil
}

// addMonths shifts t by the given number of calendar months, clamping the
// day-of-month to the target month's length (Jan 31 + 1 month = Feb 28/29,
// not Mar 2/3 as time.AddDate's normalization would give).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in t's month.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
