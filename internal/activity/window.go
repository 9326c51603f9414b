package activity

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent day summaries when the caller passes zero.
const DefaultWorkers = 4

// SummarizeWindow summarizes every retained day and returns the rows in chronological
// order with their 1-based day index set. Days are independent, so they are computed
// concurrently by at most workers goroutines.
func (a *Aggregator) SummarizeWindow(ctx context.Context, w *SeriesWindow, workers int) ([]SummaryRow, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	dates := w.Dates()
	rows := make([]SummaryRow, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			bucket, _ := w.Bucket(date)
			row, err := a.Summarize(date, bucket)
			if err != nil {
				return fmt.Errorf("summarize %s: %w", date.Format(time.DateOnly), err)
			}
			row.Day = i + 1
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
