package render

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

// Document is the machine-readable form of a calendar.
type Document struct {
	Email       string       `json:"email,omitempty" yaml:"email,omitempty"`
	Window      WindowDoc    `json:"window"          yaml:"window"`
	MonthStarts []MonthStart `json:"month_starts"    yaml:"month_starts"`
	Weeks       []WeekDoc    `json:"weeks"           yaml:"weeks"`
	Summary     SummaryDoc   `json:"summary"         yaml:"summary"`
}

// WindowDoc describes the calendar window.
type WindowDoc struct {
	Start         string `json:"start"          yaml:"start"`
	End           string `json:"end"            yaml:"end"`
	InitialSunday string `json:"initial_sunday" yaml:"initial_sunday"`
	Weeks         int    `json:"weeks"          yaml:"weeks"`
}

// MonthStart places a month label on a week column.
type MonthStart struct {
	Month string `json:"month" yaml:"month"`
	Week  int    `json:"week"  yaml:"week"`
}

// WeekDoc is one calendar column. Days outside the window are omitted.
type WeekDoc struct {
	Week int      `json:"week" yaml:"week"`
	Days []DayDoc `json:"days" yaml:"days"`
}

// DayDoc is one cell.
type DayDoc struct {
	Date  string `json:"date"  yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// SummaryDoc mirrors calendar.Summary with string dates.
type SummaryDoc struct {
	Total         int            `json:"total"                 yaml:"total"`
	ActiveDays    int            `json:"active_days"           yaml:"active_days"`
	BusiestDay    string         `json:"busiest_day,omitempty" yaml:"busiest_day,omitempty"`
	BusiestCount  int            `json:"busiest_count"         yaml:"busiest_count"`
	LongestStreak int            `json:"longest_streak"        yaml:"longest_streak"`
	CurrentStreak int            `json:"current_streak"        yaml:"current_streak"`
	ByWeekday     map[string]int `json:"by_weekday"            yaml:"by_weekday"`
}

// NewDocument builds the export document for grid. An email of "*" or ""
// is left out.
func NewDocument(window calendar.Window, grid calendar.Grid, email string) Document {
	if email == calendar.AllAuthors {
		email = ""
	}

	doc := Document{
		Email: email,
		Window: WindowDoc{
			Start:         window.Start.Format(dateLayout),
			End:           window.End.Format(dateLayout),
			InitialSunday: window.InitialSunday.Format(dateLayout),
			Weeks:         len(grid),
		},
		Weeks:   make([]WeekDoc, 0, len(grid)),
		Summary: newSummaryDoc(calendar.Summarize(window, grid)),
	}

	order := window.MonthOrder()
	for i, week := range window.MonthStarts() {
		doc.MonthStarts = append(doc.MonthStarts, MonthStart{Month: calendar.MonthAbbrev(order[i]), Week: week})
	}

	for week := range grid {
		wd := WeekDoc{Week: week, Days: []DayDoc{}}

		for weekday := range calendar.DaysPerWeek {
			date := window.DateAt(week, weekday)
			if !window.Contains(date) {
				continue
			}

			wd.Days = append(wd.Days, DayDoc{Date: date.Format(dateLayout), Count: grid[week][weekday]})
		}

		doc.Weeks = append(doc.Weeks, wd)
	}

	return doc
}

func newSummaryDoc(s calendar.Summary) SummaryDoc {
	sd := SummaryDoc{
		Total:         s.Total,
		ActiveDays:    s.ActiveDays,
		BusiestCount:  s.BusiestCount,
		LongestStreak: s.LongestStreak,
		CurrentStreak: s.CurrentStreak,
		ByWeekday:     make(map[string]int, calendar.DaysPerWeek),
	}

	if s.BusiestCount > 0 {
		sd.BusiestDay = s.BusiestDay.Format(dateLayout)
	}

	for weekday, n := range s.ByWeekday {
		sd.ByWeekday[time.Weekday(weekday).String()] = n
	}

	return sd
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// WriteYAML writes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return nil
}
