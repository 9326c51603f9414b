package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

// Options configures the date window applied during ingestion.
type Options struct {
	SkipDays   int // days discarded from the first date seen
	WindowDays int // days retained from the first date kept
}

// ErrOptions is returned for a negative skip or a non-positive window.
var ErrOptions = errors.New("invalid ingestion window")

// Validate checks the window bounds.
func (o Options) Validate() error {
	if o.SkipDays < 0 {
		return fmt.Errorf("%w: skip days must be >= 0 (got %d)", ErrOptions, o.SkipDays)
	}
	if o.WindowDays < 1 {
		return fmt.Errorf("%w: window days must be >= 1 (got %d)", ErrOptions, o.WindowDays)
	}
	return nil
}

// Stats describes one ingestion pass.
type Stats struct {
	Rows        int       `json:"rows" yaml:"rows"`
	Blocks      int       `json:"blocks" yaml:"blocks"`
	Malformed   int       `json:"malformed" yaml:"malformed"`
	Skipped     int       `json:"skipped" yaml:"skipped"`
	Accepted    int       `json:"accepted" yaml:"accepted"`
	Exhausted   bool      `json:"exhausted" yaml:"exhausted"`
	FirstSeen   time.Time `json:"first_seen,omitempty" yaml:"first_seen,omitempty"`
	FirstParsed time.Time `json:"first_parsed,omitempty" yaml:"first_parsed,omitempty"`
}

type mode int

const (
	waiting mode = iota
	parsing
)

// state is threaded through the fold over rows; it owns the buckets until the pass ends.
type state struct {
	opt         Options
	mode        mode
	firstSeen   *time.Time
	firstParsed *time.Time
	buckets     map[time.Time]activity.DayBucket
	stats       Stats
	done        bool
	log         *zap.Logger
}

func newState(opt Options, log *zap.Logger) *state {
	return &state{
		opt:     opt,
		mode:    waiting,
		buckets: make(map[time.Time]activity.DayBucket),
		log:     log,
	}
}

// step consumes one row. After the window is exhausted done is set and no further
// rows may be fed.
func (st *state) step(row sheet.Row) {
	st.stats.Rows++
	c := Classify(row)
	switch {
	case c.Kind == RowBlank:
		st.mode = waiting
	case st.mode == waiting:
		if c.Kind == RowHeader {
			st.mode = parsing
			st.stats.Blocks++
			st.log.Debug("data block started", zap.Int("row", st.stats.Rows))
		}
	case c.Kind == RowData:
		st.accept(c.Sample)
	default:
		// Unparseable rows, and a header met mid-block, end the block.
		st.mode = waiting
		st.stats.Malformed++
		st.log.Debug("block ended by malformed row",
			zap.Int("row", st.stats.Rows), zap.Stringer("kind", c.Kind))
	}
}

func (st *state) accept(s activity.Sample) {
	if st.firstSeen == nil {
		d := s.Date
		st.firstSeen = &d
		st.stats.FirstSeen = d
	}
	if activity.DaysBetween(*st.firstSeen, s.Date) < st.opt.SkipDays {
		st.stats.Skipped++
		return
	}
	if st.firstParsed == nil {
		d := s.Date
		st.firstParsed = &d
		st.stats.FirstParsed = d
	}
	if activity.DaysBetween(*st.firstParsed, s.Date) >= st.opt.WindowDays {
		st.done = true
		st.stats.Exhausted = true
		st.log.Info("date window exhausted",
			zap.Time("date", s.Date), zap.Int("row", st.stats.Rows))
		return
	}
	day := activity.Day(s.Date)
	st.buckets[day] = append(st.buckets[day], s)
	st.stats.Accepted++
}

// cancelCheckEvery is how many rows pass between context checks.
const cancelCheckEvery = 4096

// Run makes one forward pass over src and returns the retained samples grouped by
// date. Malformed rows are recovered from locally; only source and context errors are
// returned. Reading stops at the end of input or as soon as a sample falls past the
// retained window.
func Run(ctx context.Context, src sheet.Source, opt Options, log *zap.Logger) (*activity.SeriesWindow, Stats, error) {
	if err := opt.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	st := newState(opt, log)
	for !st.done && src.Next() {
		if st.stats.Rows%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, st.stats, err
			}
		}
		st.step(src.Row())
	}
	if err := src.Err(); err != nil {
		return nil, st.stats, fmt.Errorf("read rows: %w", err)
	}
	log.Info("ingestion finished",
		zap.Int("rows", st.stats.Rows),
		zap.Int("blocks", st.stats.Blocks),
		zap.Int("accepted", st.stats.Accepted),
		zap.Int("skipped", st.stats.Skipped),
		zap.Int("malformed", st.stats.Malformed),
		zap.Int("days", len(st.buckets)),
		zap.Bool("window_exhausted", st.stats.Exhausted))
	return activity.NewSeriesWindow(st.buckets), st.stats, nil
}
