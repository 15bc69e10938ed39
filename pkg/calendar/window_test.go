package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOneYearAgo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"mid month", day(2019, time.March, 14), day(2018, time.March, 14)},
		{"year end", day(2018, time.December, 31), day(2017, time.December, 31)},
		{"leap day clamps", day(2020, time.February, 29), day(2019, time.February, 28)},
		{"into leap year", day(2021, time.February, 28), day(2020, time.February, 28)},
		{"march after leap day", day(2025, time.March, 1), day(2024, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, calendar.OneYearAgo(tt.in))
		})
	}
}

func TestOneYearAgo_KeepsMonthAndDay(t *testing.T) {
	t.Parallel()

	for d := day(2021, time.January, 1); d.Year() < 2025; d = d.AddDate(0, 0, 1) {
		if d.Month() == time.February && d.Day() == 29 {
			continue
		}

		got := calendar.OneYearAgo(d)

		require.Equal(t, d.Year()-1, got.Year(), d.String())
		require.Equal(t, d.Month(), got.Month(), d.String())
		require.Equal(t, d.Day(), got.Day(), d.String())
	}
}

func TestFirstSundayOnOrBefore(t *testing.T) {
	t.Parallel()

	for d := day(2023, time.January, 1); d.Year() < 2025; d = d.AddDate(0, 0, 1) {
		sunday := calendar.FirstSundayOnOrBefore(d)

		require.Equal(t, time.Sunday, sunday.Weekday(), d.String())
		require.False(t, sunday.After(d), d.String())
		require.Less(t, d.Sub(sunday), 7*24*time.Hour, d.String())

		if d.Weekday() == time.Sunday {
			require.Equal(t, d, sunday)
		}
	}
}

func TestFromToday_ReferenceWindow(t *testing.T) {
	t.Parallel()

	w := calendar.FromToday(time.Date(2024, time.January, 1, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, day(2023, time.January, 2), w.Start)
	assert.Equal(t, day(2024, time.January, 1), w.End)
	assert.Equal(t, day(2023, time.January, 1), w.InitialSunday)
	assert.Equal(t, 53, w.NumWeeks())
}

func TestFromToday_UsesUTCDate(t *testing.T) {
	t.Parallel()

	// 2024-03-10 23:30 in UTC-05:00 is already March 11 in UTC.
	loc := time.FixedZone("EST", -5*60*60)
	w := calendar.FromToday(time.Date(2024, time.March, 10, 23, 30, 0, 0, loc))

	assert.Equal(t, day(2024, time.March, 11), w.End)
}

func TestFromToday_LeapDay(t *testing.T) {
	t.Parallel()

	w := calendar.FromToday(day(2024, time.February, 29))

	assert.Equal(t, day(2023, time.March, 1), w.Start)
	assert.Equal(t, day(2023, time.February, 26), w.InitialSunday)
}

func TestWindowInvariants_Sweep(t *testing.T) {
	t.Parallel()

	for today := day(2023, time.January, 1); today.Year() < 2025; today = today.AddDate(0, 0, 1) {
		w := calendar.FromToday(today)

		require.Equal(t, time.Sunday, w.InitialSunday.Weekday(), today.String())
		require.False(t, w.InitialSunday.After(w.Start), today.String())
		require.False(t, w.Start.After(w.End), today.String())
		require.Contains(t, []int{52, 53, 54}, w.NumWeeks(), today.String())
	}
}

func TestWeekOf_InRangeForWholeWindow(t *testing.T) {
	t.Parallel()

	for _, today := range []time.Time{
		day(2024, time.January, 1),
		day(2024, time.February, 29),
		day(2023, time.December, 31),
		day(2022, time.January, 1),
	} {
		w := calendar.FromToday(today)
		n := w.NumWeeks()

		for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
			week := w.WeekOf(d)

			require.GreaterOrEqual(t, week, 0)
			require.Less(t, week, n)
			require.Equal(t, d, w.DateAt(week, calendar.WeekdayOf(d)))
		}
	}
}

func TestWeekOf_Boundaries(t *testing.T) {
	t.Parallel()

	w := calendar.FromToday(day(2024, time.January, 1))

	assert.Equal(t, 0, w.WeekOf(day(2023, time.January, 1)))
	assert.Equal(t, 0, w.WeekOf(day(2023, time.January, 7)))
	assert.Equal(t, 1, w.WeekOf(day(2023, time.January, 8)))
	assert.Equal(t, 51, w.WeekOf(day(2023, time.December, 25)))
	assert.Equal(t, 52, w.WeekOf(day(2024, time.January, 1)))
}

func TestWeekdayOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, calendar.WeekdayOf(day(2023, time.January, 1)))
	assert.Equal(t, 1, calendar.WeekdayOf(day(2023, time.December, 25)))
	assert.Equal(t, 6, calendar.WeekdayOf(day(2023, time.December, 30)))
}

func TestContains(t *testing.T) {
	t.Parallel()

	w := calendar.FromToday(day(2024, time.January, 1))

	assert.False(t, w.Contains(day(2023, time.January, 1)))
	assert.True(t, w.Contains(day(2023, time.January, 2)))
	assert.True(t, w.Contains(day(2024, time.January, 1)))
	assert.False(t, w.Contains(day(2024, time.January, 2)))
}
