package render

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

const (
	dateLayout = "2006-01-02"
	noneLabel  = "-"
)

// FormatSummary renders s as a two-column table.
func FormatSummary(window calendar.Window, s calendar.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Metric", "Value"})

	tw.AppendRow(table.Row{"Window", window.Start.Format(dateLayout) + " .. " + window.End.Format(dateLayout)})
	tw.AppendRow(table.Row{"Contributions", humanize.Comma(int64(s.Total))})
	tw.AppendRow(table.Row{"Active days", humanize.Comma(int64(s.ActiveDays))})
	tw.AppendRow(table.Row{"Busiest day", busiestLabel(s)})
	tw.AppendRow(table.Row{"Longest streak", pluralDays(s.LongestStreak)})
	tw.AppendRow(table.Row{"Current streak", pluralDays(s.CurrentStreak)})
	tw.AppendSeparator()

	for weekday, n := range s.ByWeekday {
		tw.AppendRow(table.Row{time.Weekday(weekday).String(), humanize.Comma(int64(n))})
	}

	return tw.Render()
}

// WriteSummary writes FormatSummary followed by a newline.
func WriteSummary(w io.Writer, window calendar.Window, s calendar.Summary) error {
	_, err := fmt.Fprintln(w, FormatSummary(window, s))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func busiestLabel(s calendar.Summary) string {
	if s.BusiestCount == 0 {
		return noneLabel
	}

	return fmt.Sprintf("%s (%s)", s.BusiestDay.Format(dateLayout), humanize.Comma(int64(s.BusiestCount)))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}

	return humanize.Comma(int64(n)) + " days"
}
