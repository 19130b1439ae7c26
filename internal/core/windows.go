package core

import "time"

// Window is a closed date interval. Both bounds are inclusive and
// transaction timestamps are truncated to calendar dates before comparison.
type Window struct {
	Start Date
	End   Date
}

// DayWindow covers the single day [today, today].
func DayWindow(today Date) Window {
	return Window{Start: today, End: today}
}

// RollingWeekWindow covers the trailing seven days [today-6, today].
// This is a rolling window, not an ISO calendar week.
func RollingWeekWindow(today Date) Window {
	return Window{Start: today.AddDays(-6), End: today}
}

// MonthToDateWindow covers [first day of today's month, today].
func MonthToDateWindow(today Date) Window {
	return Window{Start: NewDate(today.Year(), int(today.Month()), 1), End: today}
}

// Contains reports whether the timestamp's calendar date falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(w.Start.Time) && !d.After(w.End.Time)
}

// IsWeekCheckpoint reports whether today is the fixed weekday on which the
// weekly summary checkpoint fires. The checkpoint weekday (Sunday) is a
// separate notion from the rolling seven-day window used for totals; the two
// deliberately coexist.
func IsWeekCheckpoint(today Date) bool {
	return today.Weekday() == time.Sunday
}

// IsMonthCheckpoint reports whether today is the last calendar day of its month.
func IsMonthCheckpoint(today Date) bool {
	return today.AddDays(1).Month() != today.Month()
}
