package util

import "time"

// MonthBounds returns the first and last instant of month in loc. A nil loc
// means local time.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return first, endOf(first.AddDate(0, 1, 0))
}

func YearBounds(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return first, endOf(first.AddDate(1, 0, 0))
}

// endOf is the instant right before next.
func endOf(next time.Time) time.Time {
	return next.Add(-time.Nanosecond)
}
