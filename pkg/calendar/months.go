package calendar

import (
	"bytes"
	"time"
)

// MonthsPerYear is the number of month labels in a calendar header.
const MonthsPerYear = 12

const monthLabelWidth = 3

// MonthStarts returns the week column in which each of the twelve months
// begins, ordered by chronological appearance rather than January first.
// For a window ending in March the order is April, May, ..., February, March.
func (w Window) MonthStarts() [MonthsPerYear]int {
	var starts [MonthsPerYear]int

	date := w.End

	for i := MonthsPerYear - 1; i >= 0; i-- {
		date = firstOfMonth(date)
		starts[i] = w.WeekOf(date)
		date = date.AddDate(0, 0, -1)
	}

	return starts
}

// FirstFullMonth returns the earliest month wholly inside the window. It is
// always the month after End's month, even when Start/End sit on month borders.
func (w Window) FirstFullMonth() time.Month {
	return time.Month(int(w.End.Month())%MonthsPerYear + 1)
}

// MonthOrder returns the twelve months in the order MonthStarts lists them.
func (w Window) MonthOrder() [MonthsPerYear]time.Month {
	var order [MonthsPerYear]time.Month

	first := int(w.FirstFullMonth()) - 1

	for i := range order {
		order[i] = time.Month((first+i)%MonthsPerYear + 1)
	}

	return order
}

// MonthLabels formats the month header: each three letter abbreviation is
// placed at the column of the week its month begins in. When two labels
// overlap the later month overwrites the earlier one.
func (w Window) MonthLabels() string {
	starts := w.MonthStarts()
	order := w.MonthOrder()

	width := 0
	for _, col := range starts {
		width = max(width, col+monthLabelWidth)
	}

	header := bytes.Repeat([]byte{' '}, width)

	for i, col := range starts {
		copy(header[col:], MonthAbbrev(order[i]))
	}

	return string(header)
}

// MonthAbbrev returns the three letter English abbreviation of m.
func MonthAbbrev(m time.Month) string {
	return m.String()[:monthLabelWidth]
}

func firstOfMonth(date time.Time) time.Time {
	y, m, _ := date.Date()

	return time.Date(y, m, 1, 0, 0, 0, 0, date.Location())
}
