package render

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

const (
	heatmapWidth     = "1100px"
	heatmapHeight    = "300px"
	heatmapPageTitle = "gitcal"
	columnLabelFmt   = "Jan 02"
	labelFontSize    = 10
)

// githubPalette runs from an empty day to the busiest one.
var githubPalette = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// NewHeatmap builds an echarts heatmap of grid: one column per week, one row
// per weekday. Days outside the window get no data point and stay blank.
func NewHeatmap(window calendar.Window, grid calendar.Grid, title string) *charts.HeatMap {
	columns := make([]string, len(grid))
	data := make([]opts.HeatMapData, 0, len(grid)*calendar.DaysPerWeek)
	maxVal := 0

	for week := range grid {
		columns[week] = columnLabel(window, week)

		for weekday := range calendar.DaysPerWeek {
			date := window.DateAt(week, weekday)
			if !window.Contains(date) {
				continue
			}

			n := grid[week][weekday]
			maxVal = max(maxVal, n)

			data = append(data, opts.HeatMapData{Value: []any{week, yRow(weekday), n}})
		}
	}

	weekdays := make([]string, calendar.DaysPerWeek)
	for weekday := range calendar.DaysPerWeek {
		weekdays[yRow(weekday)] = time.Weekday(weekday).String()[:3]
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: heatmapPageTitle,
			Width:     heatmapWidth,
			Height:    heatmapHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: heatmapSubtitle(window, grid),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: columns,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: weekdays,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{FontSize: labelFontSize},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: 0, Max: float32(max(maxVal, 1)),
			InRange: &opts.VisualMapInRange{Color: githubPalette},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
		}),
	)
	hm.AddSeries("Contributions", data)

	return hm
}

// WriteHeatmap renders NewHeatmap as a standalone HTML page.
func WriteHeatmap(w io.Writer, window calendar.Window, grid calendar.Grid, title string) error {
	if err := NewHeatmap(window, grid, title).Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}

	return nil
}

// yRow flips weekdays so Sunday sits at the top, the category axis grows upwards.
func yRow(weekday int) int {
	return calendar.DaysPerWeek - 1 - weekday
}

// columnLabel names a week column after its first in-window day.
func columnLabel(window calendar.Window, week int) string {
	date := window.DateAt(week, 0)
	if date.Before(window.Start) {
		date = window.Start
	}

	return date.Format(columnLabelFmt)
}

func heatmapSubtitle(window calendar.Window, grid calendar.Grid) string {
	return fmt.Sprintf("%s contributions, %s to %s",
		humanize.Comma(int64(grid.Total())),
		window.Start.Format(dateLayout),
		window.End.Format(dateLayout),
	)
}
