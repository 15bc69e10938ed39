package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"
)

// AllAuthors is the email filter that matches every commit.
const AllAuthors = "*"

// ErrInvalidAuthorEmail is returned when a commit's author email is not valid text.
var ErrInvalidAuthorEmail = errors.New("commit author email is not valid UTF-8")

// Record is the part of a commit the calendar needs.
type Record struct {
	// Timestamp is the commit time in seconds since the Unix epoch.
	Timestamp int64
	// AuthorEmail is the email of the commit author.
	AuthorEmail string
}

// Date returns the UTC calendar date of the record.
func (r Record) Date() time.Time {
	return DateOf(time.Unix(r.Timestamp, 0))
}

// CommitSource yields records newest first. Next returns io.EOF once exhausted.
//
// Records must arrive in non-increasing timestamp order: Tally stops at the
// first record older than the window and never looks at the rest.
type CommitSource interface {
	Next(ctx context.Context) (Record, error)
}

// Week holds the counts of one grid column, indexed Sunday = 0 through Saturday = 6.
type Week [DaysPerWeek]int

// Grid is the contribution calendar, one Week per column.
type Grid []Week

// NewGrid allocates an all-zero grid sized for w.
func NewGrid(w Window) Grid {
	return make(Grid, w.NumWeeks())
}

// Total returns the sum of all cells.
func (g Grid) Total() int {
	total := 0

	for _, week := range g {
		for _, n := range week {
			total += n
		}
	}

	return total
}

// TallyStats describes one pass over a commit source.
type TallyStats struct {
	Scanned int  // records inside the window that were inspected
	Counted int  // records that matched the filter and landed in the grid
	Future  int  // matching records dated after the last grid column
	Stopped bool // the pass ended on a record older than the window
}

// EmailFilter selects the commits that count towards the calendar.
type EmailFilter string

// Matches reports whether a commit authored by email passes the filter.
func (f EmailFilter) Matches(email string) bool {
	return f == AllAuthors || string(f) == email
}

// Tally consumes src and counts matching commits into a grid for w.
//
// Consumption stops at the first record dated before w.Start. Records dated
// past the final grid column are tolerated and left uncounted.
func Tally(ctx context.Context, w Window, filter EmailFilter, src CommitSource) (Grid, TallyStats, error) {
	grid := NewGrid(w)

	var stats TallyStats

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("tally: %w", err)
		}

		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return grid, stats, nil
		}

		if err != nil {
			return nil, stats, fmt.Errorf("tally: next commit: %w", err)
		}

		date := rec.Date()
		if date.Before(w.Start) {
			stats.Stopped = true

			return grid, stats, nil
		}

		stats.Scanned++

		if !utf8.ValidString(rec.AuthorEmail) {
			return nil, stats, fmt.Errorf("%w: %q", ErrInvalidAuthorEmail, rec.AuthorEmail)
		}

		if !filter.Matches(rec.AuthorEmail) {
			continue
		}

		week := w.WeekOf(date)
		if week >= len(grid) {
			stats.Future++

			continue
		}

		grid[week][WeekdayOf(date)]++
		stats.Counted++
	}
}

// SliceSource replays a fixed list of records. It is handy in tests and for
// callers that already hold the history in memory.
type SliceSource struct {
	records []Record
	pos     int
}

// NewSliceSource returns a source over records, in the given order.
func NewSliceSource(records []Record) *SliceSource {
	return &SliceSource{records: records}
}

// Next returns the next record or io.EOF.
func (s *SliceSource) Next(_ context.Context) (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}

	rec := s.records[s.pos]
	s.pos++

	return rec, nil
}

// Consumed reports how many records have been handed out.
func (s *SliceSource) Consumed() int {
	return s.pos
}
