// Package workload turns a user's deadlines into per-week load summaries.
//
// Everything here is pure: no storage, no clock. Callers pass "now" and the
// reference calendar is taken from now's location.
package workload

import "time"

// KeyLayout formats a week start into the stable key used for storage diffs.
const KeyLayout = "2006-01-02"

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekEnd returns the last instant of the Sunday closing t's week.
func WeekEnd(t time.Time) time.Time {
	y, m, d := WeekStart(t).Date()
	return time.Date(y, m, d+6, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// WeekKey identifies the week containing t.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format(KeyLayout)
}
