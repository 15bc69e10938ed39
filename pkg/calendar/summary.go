package calendar

import "time"

// Summary aggregates a filled grid into headline numbers.
type Summary struct {
	Total         int
	ActiveDays    int
	BusiestDay    time.Time // zero when there are no contributions
	BusiestCount  int
	LongestStreak int
	CurrentStreak int // run of active days ending on End (or the day before)
	ByWeekday     [DaysPerWeek]int
}

// Summarize walks the in-window cells of grid in date order.
func Summarize(w Window, grid Grid) Summary {
	var s Summary

	run := 0

	for date := w.Start; !date.After(w.End); date = date.AddDate(0, 0, 1) {
		week, weekday := w.WeekOf(date), WeekdayOf(date)
		if week >= len(grid) {
			break
		}

		n := grid[week][weekday]

		s.Total += n
		s.ByWeekday[weekday] += n

		if n > s.BusiestCount {
			s.BusiestCount = n
			s.BusiestDay = date
		}

		if n == 0 {
			run = 0

			continue
		}

		s.ActiveDays++
		run++
		s.LongestStreak = max(s.LongestStreak, run)
	}

	s.CurrentStreak = currentStreak(w, grid)

	return s
}

// currentStreak counts active days backwards from End. An empty End does not
// break the streak yet, the day is not over.
func currentStreak(w Window, grid Grid) int {
	date := w.End
	if cellAt(w, grid, date) == 0 {
		date = date.AddDate(0, 0, -1)
	}

	streak := 0

	for ; !date.Before(w.Start); date = date.AddDate(0, 0, -1) {
		if cellAt(w, grid, date) == 0 {
			break
		}

		streak++
	}

	return streak
}

func cellAt(w Window, grid Grid, date time.Time) int {
	week := w.WeekOf(date)
	if week < 0 || week >= len(grid) {
		return 0
	}

	return grid[week][WeekdayOf(date)]
}
