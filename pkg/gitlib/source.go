package gitlib

import (
	"context"
	"io"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
)

// CommitSource adapts a CommitIter to calendar.CommitSource.
//
// A record carries the committer time, which is what the time-sorted walk
// orders by, and the author email, which is what the calendar filters on.
type CommitSource struct {
	iter *CommitIter
}

// NewCommitSource wraps iter. Closing the source closes iter.
func NewCommitSource(iter *CommitIter) *CommitSource {
	return &CommitSource{iter: iter}
}

// Next returns the next commit as a calendar record.
func (s *CommitSource) Next(ctx context.Context) (calendar.Record, error) {
	if err := ctx.Err(); err != nil {
		return calendar.Record{}, err
	}

	commit, err := s.iter.Next()
	if err != nil {
		return calendar.Record{}, err
	}
	defer commit.Free()

	return calendar.Record{
		Timestamp:   commit.Committer().When.Unix(),
		AuthorEmail: commit.Author().Email,
	}, nil
}

// Close releases the underlying walk.
func (s *CommitSource) Close() error {
	s.iter.Close()

	return nil
}

var (
	_ calendar.CommitSource = (*CommitSource)(nil)
	_ io.Closer             = (*CommitSource)(nil)
)
