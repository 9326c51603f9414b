package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/ingest"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

var d0 = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time { return d0.AddDate(0, 0, i) }

func header() sheet.Row {
	return sheet.Row{sheet.String("Date"), sheet.String("Time"), sheet.String("Mag. Value"),
		sheet.String("Vig"), sheet.String("Mod"), sheet.String("Low"),
		sheet.String("Sed"), sheet.String("CVig"), sheet.String("CMod")}
}

func blank() sheet.Row { return sheet.Row{sheet.Empty(), sheet.Empty()} }

func dataRow(date time.Time, tod time.Duration, mag int, flags ...string) sheet.Row {
	serial := sheet.ToSerial(date.Add(tod))
	row := sheet.Row{sheet.DateTime(serial), sheet.DateTime(serial), sheet.Number(float64(mag))}
	for i := 0; i < 6; i++ {
		f := "N"
		if i < len(flags) {
			f = flags[i]
		}
		row = append(row, sheet.String(f))
	}
	return row
}

// countingSource records how many rows were pulled from the underlying source.
type countingSource struct {
	sheet.Source
	pulled int
}

func (c *countingSource) Next() bool {
	ok := c.Source.Next()
	if ok {
		c.pulled++
	}
	return ok
}

func run(t *testing.T, opt ingest.Options, rows ...sheet.Row) (*activity.SeriesWindow, ingest.Stats) {
	t.Helper()
	w, stats, err := ingest.Run(context.Background(), sheet.NewSliceSource(rows), opt, zap.NewNop())
	require.NoError(t, err)
	return w, stats
}

func TestRunWindowSkipsThenRetains(t *testing.T) {
	rows := []sheet.Row{header()}
	for i := 0; i < 10; i++ {
		rows = append(rows, dataRow(day(i), 8*time.Hour, 100+i))
	}
	src := &countingSource{Source: sheet.NewSliceSource(rows)}

	w, stats, err := ingest.Run(context.Background(), src, ingest.Options{SkipDays: 2, WindowDays: 3}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2), day(3), day(4)}, w.Dates())
	assert.True(t, stats.Exhausted)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 3, stats.Accepted)
	assert.Equal(t, day(0), stats.FirstSeen)
	assert.Equal(t, day(2), stats.FirstParsed)
	// header + D0..D5; D5 triggers the stop and D6..D9 are never read
	assert.Equal(t, 7, src.pulled)
}

func TestRunBoundaryDayIncludedRegardlessOfTime(t *testing.T) {
	w, _ := run(t, ingest.Options{WindowDays: 2},
		header(),
		dataRow(day(0), 23*time.Hour+59*time.Minute, 1),
		dataRow(day(1), 0, 2),
		dataRow(day(1), 23*time.Hour, 3),
		dataRow(day(2), 0, 4),
	)
	require.Equal(t, 2, w.Len())
	b, ok := w.Bucket(day(1))
	require.True(t, ok)
	assert.Len(t, b, 2)
}

func TestRunBlankThenHeaderReentersParsing(t *testing.T) {
	w, stats := run(t, ingest.Options{WindowDays: 7},
		header(),
		dataRow(day(0), time.Hour, 10),
		dataRow(day(0), 2*time.Hour, 20),
		blank(),
		header(),
		dataRow(day(0), 3*time.Hour, 30),
	)
	b, ok := w.Bucket(day(0))
	require.True(t, ok)
	require.Len(t, b, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{b[0].Magnitude, b[1].Magnitude, b[2].Magnitude})
	assert.Equal(t, 2, stats.Blocks)
	assert.Equal(t, 0, stats.Malformed)
}

func TestRunMalformedRowEndsBlock(t *testing.T) {
	w, stats := run(t, ingest.Options{WindowDays: 7},
		header(),
		dataRow(day(0), time.Hour, 10),
		dataRow(day(0), 2*time.Hour, 20, "Maybe"),
		dataRow(day(0), 3*time.Hour, 30), // ignored: no header since the block ended
		header(),
		dataRow(day(1), time.Hour, 40),
	)
	b0, _ := w.Bucket(day(0))
	b1, _ := w.Bucket(day(1))
	assert.Len(t, b0, 1)
	assert.Len(t, b1, 1)
	assert.Equal(t, 1, stats.Malformed)
}

func TestRunHeaderInsideBlockEndsBlock(t *testing.T) {
	w, stats := run(t, ingest.Options{WindowDays: 7},
		header(),
		dataRow(day(0), time.Hour, 10),
		header(),
		dataRow(day(0), 2*time.Hour, 20),
	)
	b, _ := w.Bucket(day(0))
	assert.Len(t, b, 1)
	assert.Equal(t, 1, stats.Blocks)
}

func TestRunIgnoresRowsOutsideBlocks(t *testing.T) {
	w, _ := run(t, ingest.Options{WindowDays: 7},
		sheet.Row{sheet.String("Subject"), sheet.String("P-017")},
		dataRow(day(0), time.Hour, 99),
		header(),
		dataRow(day(1), time.Hour, 10),
	)
	assert.Equal(t, []time.Time{day(1)}, w.Dates())
}

func TestRunSkipCountsFromFirstSeenDate(t *testing.T) {
	w, stats := run(t, ingest.Options{SkipDays: 1, WindowDays: 1},
		header(),
		dataRow(day(0), time.Hour, 1),
		dataRow(day(0), 2*time.Hour, 2),
		dataRow(day(3), time.Hour, 3),
		dataRow(day(4), time.Hour, 4),
	)
	assert.Equal(t, []time.Time{day(3)}, w.Dates())
	assert.Equal(t, 2, stats.Skipped)
	assert.True(t, stats.Exhausted)
}

func TestRunEmptyInput(t *testing.T) {
	w, stats := run(t, ingest.Options{WindowDays: 1})
	assert.Equal(t, 0, w.Len())
	assert.False(t, stats.Exhausted)
}

func TestRunRejectsOptions(t *testing.T) {
	for _, opt := range []ingest.Options{{SkipDays: -1, WindowDays: 1}, {WindowDays: 0}} {
		_, _, err := ingest.Run(context.Background(), sheet.NewSliceSource(nil), opt, nil)
		assert.ErrorIs(t, err, ingest.ErrOptions)
	}
}

type failingSource struct{ sheet.Source }

var errDisk = errors.New("disk went away")

func (failingSource) Err() error { return errDisk }

func TestRunPropagatesSourceError(t *testing.T) {
	src := failingSource{Source: sheet.NewSliceSource([]sheet.Row{header()})}
	_, _, err := ingest.Run(context.Background(), src, ingest.Options{WindowDays: 1}, nil)
	assert.ErrorIs(t, err, errDisk)
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ingest.Run(ctx, sheet.NewSliceSource([]sheet.Row{header()}), ingest.Options{WindowDays: 1}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
