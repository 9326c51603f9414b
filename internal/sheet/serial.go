package sheet

import (
	"math"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// serialBase is day zero of the 1900 date system once the two-day correction is applied:
// serial 1 is 1900-01-01 and the phantom 1900-02-29 shifts every later serial by one more.
var serialBase = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -2)

// SerialDate returns the calendar date (UTC midnight) encoded in the integer part
// of a serial datetime. Negative and non-finite serials do not decode.
func SerialDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, false
	}
	days := int(math.Trunc(serial))
	return serialBase.AddDate(0, 0, days), true
}

// SerialTimeOfDay returns the offset since midnight encoded in the fractional part of
// a serial datetime, rounded to the nearest second. A value that rounds up to a full
// day is clamped to 23:59:59 because the date part is decoded independently.
func SerialTimeOfDay(serial float64) (time.Duration, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return 0, false
	}
	_, frac := math.Modf(serial)
	secs := int64(math.Round(frac * secondsPerDay))
	if secs >= secondsPerDay {
		secs = secondsPerDay - 1
	}
	return time.Duration(secs) * time.Second, true
}

// ToSerial converts a wall-clock time to a serial datetime. The location is ignored;
// the wall-clock fields are used as they are.
func ToSerial(t time.Time) float64 {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Round(day.Sub(serialBase).Hours() / 24)
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	return days + float64(secs)/secondsPerDay
}
