// Package recur implements the calendar arithmetic behind recurring
// task due dates: aligning a recurrence to its first occurrence,
// advancing to the next one, and resolving the occurrence that is
// currently relevant for a task.
package recur

import "time"

// daysIn returns the number of days in the given month.
// Day 0 of the following month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay bounds day to [1, last day of the month]. Days past the end
// of the month clamp down; they never wrap into the next month.
func clampDay(day, year int, month time.Month) int {
	if day < 1 {
		return 1
	}
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddMonths shifts t by n months (negative allowed), rolling the year
// in either direction. The day clamps to the target month's length, so
// Jan 31 + 1 month is Feb 29 in a leap year and Feb 28 otherwise,
// never March anything.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()

	// Day 1 is safe in every month; time.Date normalizes the
	// out-of-range month into the right year.
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())

	day := clampDay(d, first.Year(), first.Month())
	h, min, sec := t.Clock()
	return time.Date(first.Year(), first.Month(), day, h, min, sec, t.Nanosecond(), t.Location())
}

// addYears shifts t by n years with the same day clamping as AddMonths
// (Feb 29 lands on Feb 28 in non-leap years).
func addYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}
