package activity

import (
	"sort"
	"time"
)

// NoReading is the magnitude a device records for an epoch with no reading captured.
const NoReading = -1

// Sample is one sensor reading.
type Sample struct {
	Date      time.Time     // calendar date at UTC midnight
	TimeOfDay time.Duration // offset since midnight, one second resolution
	Magnitude int

	// Flags exported by the device alongside each reading. They are kept for
	// fidelity with the input schema; no computation reads them.
	Vigorous           bool
	Moderate           bool
	Low                bool
	Sedentary          bool
	ConcurrentVigorous bool
	ConcurrentModerate bool
}

// Timestamp joins the date and time of day.
func (s Sample) Timestamp() time.Time { return s.Date.Add(s.TimeOfDay) }

// DayBucket holds the samples of one calendar date in arrival order.
type DayBucket []Sample

// SeriesWindow maps each retained calendar date to its samples.
// It is built once by ingestion and read-only afterwards.
type SeriesWindow struct {
	buckets map[time.Time]DayBucket
	dates   []time.Time
}

// NewSeriesWindow takes ownership of buckets. Keys must be UTC midnights (see Day).
func NewSeriesWindow(buckets map[time.Time]DayBucket) *SeriesWindow {
	if buckets == nil {
		buckets = make(map[time.Time]DayBucket)
	}
	dates := make([]time.Time, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return &SeriesWindow{buckets: buckets, dates: dates}
}

// Dates returns the retained dates in chronological order.
func (w *SeriesWindow) Dates() []time.Time {
	out := make([]time.Time, len(w.dates))
	copy(out, w.dates)
	return out
}

// Bucket returns the samples for date.
func (w *SeriesWindow) Bucket(date time.Time) (DayBucket, bool) {
	b, ok := w.buckets[Day(date)]
	return b, ok
}

// Len returns the number of retained dates.
func (w *SeriesWindow) Len() int { return len(w.dates) }

// Samples returns the number of samples across all dates.
func (w *SeriesWindow) Samples() int {
	n := 0
	for _, b := range w.buckets {
		n += len(b)
	}
	return n
}

// Day truncates t to its calendar date at UTC midnight, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
