package render_test

import (
	"time"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

// referenceCalendar is the window ending 2024-01-01 with one commit on
// Monday 2023-12-25 and 1234 on Thursday 2023-06-01.
func referenceCalendar() (calendar.Window, calendar.Grid) {
	window := calendar.FromToday(referenceWindowEnd())
	grid := calendar.NewGrid(window)

	grid[51][1] = 1
	grid[21][4] = 1234

	return window, grid
}

func referenceWindowEnd() time.Time {
	return time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
}
