package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsScanned = "gitcal.commits.scanned"
	metricCommitsCounted = "gitcal.commits.counted"
	metricTallyDuration  = "gitcal.tally.duration.seconds"

	attrFiltered = "filtered"
)

var tallyBucketBoundaries = []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// CalendarMetrics holds the instruments recorded once per calendar run.
type CalendarMetrics struct {
	scanned  metric.Int64Counter
	counted  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewCalendarMetrics creates the calendar instruments from mt.
func NewCalendarMetrics(mt metric.Meter) (*CalendarMetrics, error) {
	scanned, err := mt.Int64Counter(metricCommitsScanned,
		metric.WithDescription("Commits inspected inside the calendar window"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsScanned, err)
	}

	counted, err := mt.Int64Counter(metricCommitsCounted,
		metric.WithDescription("Commits that landed in the calendar grid"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsCounted, err)
	}

	duration, err := mt.Float64Histogram(metricTallyDuration,
		metric.WithDescription("Time spent walking history for one calendar"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(tallyBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricTallyDuration, err)
	}

	return &CalendarMetrics{scanned: scanned, counted: counted, duration: duration}, nil
}

// RecordTally records the outcome of one history walk.
func (cm *CalendarMetrics) RecordTally(ctx context.Context, scanned, counted int, filtered bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool(attrFiltered, filtered))

	cm.scanned.Add(ctx, int64(scanned), attrs)
	cm.counted.Add(ctx, int64(counted), attrs)
	cm.duration.Record(ctx, elapsed.Seconds(), attrs)
}
