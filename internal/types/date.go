package types

import (
	"time"
)

// AddClampedDate adds years, months and days to t, clamping to the last
// valid day of the resulting month. Unlike time.AddDate this never spills
// into the following month, so Jan 31 plus one month is Feb 28 (or 29),
// not Mar 2/3.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	// Find the last valid day of the new month
	firstOfNextMonth := time.Date(newY, newM+1, 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfNextMonth.Add(-24 * time.Hour).Day()

	newD := d + days
	if newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}

// DateOnly truncates t to midnight in its own location, for date-only
// comparisons such as "first due date must not be in the past".
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateBefore reports whether a falls on an earlier calendar day than b,
// ignoring time of day.
func IsDateBefore(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}
