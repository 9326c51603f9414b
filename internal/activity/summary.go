package activity

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData is returned when a day has no samples to summarize.
var ErrNoData = errors.New("no data for day")

// ErrEpoch is returned for a non-positive epoch length.
var ErrEpoch = errors.New("epoch seconds must be positive")

// SummaryRow holds one calendar day's derived statistics.
type SummaryRow struct {
	Day     int // 1-based position in the report
	Date    time.Time
	Weekday time.Weekday
	Samples int

	Sedentary time.Duration
	Low       time.Duration
	Moderate  time.Duration
	Vigorous  time.Duration

	NonZero time.Duration
	Zero    time.Duration
	Empty   time.Duration

	TotalCounts     int64
	CountsPerMinute float64
	CountsPerEpoch  float64
}

// Weekend reports whether the row falls on Saturday or Sunday.
func (r SummaryRow) Weekend() bool {
	return r.Weekday == time.Saturday || r.Weekday == time.Sunday
}

// Band returns the duration spent in band b.
func (r SummaryRow) Band(b Band) time.Duration {
	switch b {
	case Sedentary:
		return r.Sedentary
	case Light:
		return r.Low
	case Moderate:
		return r.Moderate
	case Vigorous:
		return r.Vigorous
	}
	return 0
}

// Aggregator turns day buckets into summary rows.
type Aggregator struct {
	epoch     int
	cutpoints Cutpoints
}

// NewAggregator validates the epoch length and cutpoints.
func NewAggregator(epochSeconds int, cutpoints Cutpoints) (*Aggregator, error) {
	if epochSeconds <= 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrEpoch, epochSeconds)
	}
	if err := cutpoints.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{epoch: epochSeconds, cutpoints: cutpoints}, nil
}

// EpochSeconds returns the configured epoch length.
func (a *Aggregator) EpochSeconds() int { return a.epoch }

// Cutpoints returns the configured cutpoints.
func (a *Aggregator) Cutpoints() Cutpoints { return a.cutpoints }

// Summarize computes the statistics of one day. Every field is derived from counts
// over the whole bucket, so sample order does not matter. An empty bucket yields
// ErrNoData for the whole row.
func (a *Aggregator) Summarize(date time.Time, bucket DayBucket) (SummaryRow, error) {
	n := len(bucket)
	if n == 0 {
		return SummaryRow{}, fmt.Errorf("%w: %s", ErrNoData, date.Format(time.DateOnly))
	}

	var bands [4]int
	var nonZero, zero, empty int
	var total int64
	for _, s := range bucket {
		bands[a.cutpoints.Classify(s.Magnitude)]++
		switch {
		case s.Magnitude > 0:
			nonZero++
		case s.Magnitude == 0:
			zero++
		case s.Magnitude == NoReading:
			empty++
		}
		total += int64(s.Magnitude)
	}

	epochsPerMinute := 60 / float64(a.epoch)
	minutes := float64(n) / epochsPerMinute
	perMinute := float64(total) / minutes

	day := Day(date)
	return SummaryRow{
		Date:            day,
		Weekday:         day.Weekday(),
		Samples:         n,
		Sedentary:       a.duration(bands[Sedentary]),
		Low:             a.duration(bands[Light]),
		Moderate:        a.duration(bands[Moderate]),
		Vigorous:        a.duration(bands[Vigorous]),
		NonZero:         a.duration(nonZero),
		Zero:            a.duration(zero),
		Empty:           a.duration(empty),
		TotalCounts:     total,
		CountsPerMinute: perMinute,
		CountsPerEpoch:  perMinute / epochsPerMinute,
	}, nil
}

func (a *Aggregator) duration(epochs int) time.Duration {
	return time.Duration(epochs*a.epoch) * time.Second
}

// Clock renders d as HH:MM:SS on a 24-hour clock; whole days wrap around.
func Clock(d time.Duration) string {
	secs := int64(d / time.Second)
	h := secs / 3600 % 24
	m := secs / 60 % 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
