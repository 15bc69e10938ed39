// Package render turns a tallied contribution grid into something a person
// can look at: terminal rows, a summary table, JSON or YAML documents and an
// HTML heatmap.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
	"github.com/Sumatoshi-tech/gitcal/pkg/config"
)

const (
	rowLabelWidth = 4
	maxDigitCount = 9
	outsideGlyph  = ' '
	zeroGlyph     = '.'
	overflowGlyph = 'X'
)

// Intensity thresholds for colouring, in commits per day.
const (
	lowIntensity  = 2
	highIntensity = 6
)

var rowLabels = [calendar.DaysPerWeek]string{"    ", "Mon ", "    ", "Wed ", "    ", "Fri ", "    "}

// Glyph maps a day's count to the character printed for it.
func Glyph(count int) byte {
	switch {
	case count <= 0:
		return zeroGlyph
	case count <= maxDigitCount:
		return byte('0' + count)
	default:
		return overflowGlyph
	}
}

// ColorEnabled resolves a color mode against the output file. In auto mode
// colour is used only when out is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	if _, set := os.LookupEnv("NO_COLOR"); set || out == nil {
		return false
	}

	return term.IsTerminal(int(out.Fd()))
}

// Terminal prints the calendar as a month header and seven weekday rows.
type Terminal struct {
	out     io.Writer
	palette [4]*color.Color
}

// NewTerminal returns a Terminal writing to out. Colour is forced on or off
// per instance, independent of color.NoColor.
func NewTerminal(out io.Writer, colored bool) *Terminal {
	palette := [4]*color.Color{
		color.New(color.FgHiBlack),
		color.New(color.FgGreen),
		color.New(color.FgHiGreen),
		color.New(color.FgHiGreen, color.Bold),
	}

	for _, c := range palette {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &Terminal{out: out, palette: palette}
}

// Render writes the header line and the weekday rows for grid.
func (t *Terminal) Render(window calendar.Window, grid calendar.Grid) error {
	bw := bufio.NewWriter(t.out)

	// The month header is exactly one line; the weekday rows follow directly.
	fmt.Fprintf(bw, "%*s%s\n", rowLabelWidth, "", window.MonthLabels())

	for weekday, label := range rowLabels {
		bw.WriteString(label)

		for week := range grid {
			date := window.DateAt(week, weekday)
			if !window.Contains(date) {
				bw.WriteByte(outsideGlyph)

				continue
			}

			count := grid[week][weekday]
			t.shade(count).Fprint(bw, string(Glyph(count)))
		}

		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}

	return nil
}

func (t *Terminal) shade(count int) *color.Color {
	switch {
	case count <= 0:
		return t.palette[0]
	case count <= lowIntensity:
		return t.palette[1]
	case count < highIntensity:
		return t.palette[2]
	default:
		return t.palette[3]
	}
}
