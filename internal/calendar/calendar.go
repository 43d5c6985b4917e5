// Package calendar provides business-day arithmetic for SLA day counting.
// All functions are pure: they operate on dates only (time-of-day is
// ignored) and perform no I/O.
package calendar

import "time"

// IsBusinessDay reports whether t falls on a weekday (Mon-Fri).
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// date truncates t to midnight in its own location so hour differences
// never change day counts.
func date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BusinessDaysBetween counts the business days elapsed from start to end:
// the number of weekdays in (start, end]. Same-day and weekend-only spans
// count as zero. A Monday to the following Monday counts 5.
// Returns a negative count when end precedes start.
func BusinessDaysBetween(start, end time.Time) int {
	s, e := date(start), date(end)
	if e.Before(s) {
		return -BusinessDaysBetween(end, start)
	}
	days := 0
	for d := s.AddDate(0, 0, 1); !d.After(e); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(d) {
			days++
		}
	}
	return days
}

// CalendarDaysBetween counts whole calendar days from start to end,
// negative when end precedes start.
func CalendarDaysBetween(start, end time.Time) int {
	s, e := date(start), date(end)
	return int(e.Sub(s).Hours() / 24)
}

// AddBusinessDays advances start by n weekdays, skipping Saturdays and
// Sundays. With n <= 0 the (date-truncated) start is returned unchanged.
func AddBusinessDays(start time.Time, n int) time.Time {
	d := date(start)
	for i := 0; i < n; {
		d = d.AddDate(0, 0, 1)
		if IsBusinessDay(d) {
			i++
		}
	}
	return d
}
