// Package calendar computes the trailing-year contribution calendar: the rolling
// window, week/weekday cell indexing, month label alignment and commit tallying.
package calendar

import "time"

// DaysPerWeek is the number of rows in the calendar, Sunday first.
const DaysPerWeek = 7

const hoursPerDay = 24

// Window is the trailing year leading up to End, both ends inclusive.
// All dates are UTC midnights.
type Window struct {
	// Start is the first date of the window (the day after End one year earlier).
	Start time.Time
	// End is the last date of the window, normally today.
	End time.Time
	// InitialSunday is the Sunday on or before Start. Week indices count from it.
	InitialSunday time.Time
}

// FromToday builds the window ending on the UTC calendar date of now.
func FromToday(now time.Time) Window {
	end := DateOf(now)
	start := OneYearAgo(end).AddDate(0, 0, 1)

	return Window{
		Start:         start,
		End:           end,
		InitialSunday: FirstSundayOnOrBefore(start),
	}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OneYearAgo rewinds a date by one calendar year. Feb 29 maps to Feb 28
// when the previous year has no leap day.
func OneYearAgo(date time.Time) time.Time {
	y, m, d := date.Date()

	if m == time.February && d == 29 && !isLeapYear(y-1) {
		d = 28
	}

	return time.Date(y-1, m, d, 0, 0, 0, 0, date.Location())
}

// FirstSundayOnOrBefore returns the Sunday that starts the week containing date.
func FirstSundayOnOrBefore(date time.Time) time.Time {
	return date.AddDate(0, 0, -WeekdayOf(date))
}

// WeekdayOf returns the weekday index of date, Sunday = 0 through Saturday = 6.
func WeekdayOf(date time.Time) int {
	return int(date.Weekday())
}

// WeekOf returns the zero-based week column of date, counted in whole weeks
// from InitialSunday. Dates before InitialSunday are never queried.
func (w Window) WeekOf(date time.Time) int {
	return daysBetween(w.InitialSunday, date) / DaysPerWeek
}

// NumWeeks returns how many Sunday-aligned weeks, partial or full, the window spans.
// This is 52 or 53, and 54 on rare alignments.
func (w Window) NumWeeks() int {
	return w.WeekOf(w.End) + 1
}

// DateAt resolves a grid cell back to its calendar date.
func (w Window) DateAt(week, weekday int) time.Time {
	return w.InitialSunday.AddDate(0, 0, week*DaysPerWeek+weekday)
}

// Contains reports whether date lies within [Start, End].
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// daysBetween counts whole days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours()) / hoursPerDay
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
