package ingest

import (
	"math"
	"time"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

// RowKind is the classification of one input row.
type RowKind int

const (
	RowBlank RowKind = iota
	RowHeader
	RowData
	RowUnparseable
)

func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowHeader:
		return "header"
	case RowData:
		return "data"
	case RowUnparseable:
		return "unparseable"
	}
	return "unknown"
}

// Header cell texts that open a data block, matched exactly.
var headerCells = [3]string{"Date", "Time", "Mag. Value"}

// dataColumns is the width of a data row: date, time, magnitude and six flags.
const dataColumns = 9

// Classified is a row classification; Sample is set only for RowData.
type Classified struct {
	Kind   RowKind
	Sample activity.Sample
}

// Classify decides what one row is. It has no side effects.
func Classify(row sheet.Row) Classified {
	if row.IsBlank() {
		return Classified{Kind: RowBlank}
	}
	if IsHeader(row) {
		return Classified{Kind: RowHeader}
	}
	s, ok := ParseSample(row)
	if !ok {
		return Classified{Kind: RowUnparseable}
	}
	return Classified{Kind: RowData, Sample: s}
}

// IsHeader reports whether the first three cells are the literal block header.
func IsHeader(row sheet.Row) bool {
	for i, want := range headerCells {
		c := row.At(i)
		if c.Kind != sheet.KindString || c.Str != want {
			return false
		}
	}
	return true
}

// ParseSample decodes a data row. Every one of the nine cells must decode.
func ParseSample(row sheet.Row) (activity.Sample, bool) {
	if len(row) < dataColumns {
		return activity.Sample{}, false
	}
	var s activity.Sample
	var ok bool
	if s.Date, ok = decodeDate(row[0]); !ok {
		return activity.Sample{}, false
	}
	if s.TimeOfDay, ok = decodeTime(row[1]); !ok {
		return activity.Sample{}, false
	}
	if s.Magnitude, ok = decodeMagnitude(row[2]); !ok {
		return activity.Sample{}, false
	}
	flags := []*bool{
		&s.Vigorous, &s.Moderate, &s.Low, &s.Sedentary,
		&s.ConcurrentVigorous, &s.ConcurrentModerate,
	}
	for i, dst := range flags {
		if *dst, ok = decodeYesNo(row[3+i]); !ok {
			return activity.Sample{}, false
		}
	}
	return s, true
}

func decodeDate(c sheet.Cell) (time.Time, bool) {
	if !c.IsNumeric() {
		return time.Time{}, false
	}
	return sheet.SerialDate(c.Num)
}

func decodeTime(c sheet.Cell) (time.Duration, bool) {
	if !c.IsNumeric() {
		return 0, false
	}
	return sheet.SerialTimeOfDay(c.Num)
}

// decodeMagnitude accepts plain numeric cells; fractional values truncate toward zero.
func decodeMagnitude(c sheet.Cell) (int, bool) {
	if c.Kind != sheet.KindNumber {
		return 0, false
	}
	if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) || math.Abs(c.Num) > math.MaxInt32 {
		return 0, false
	}
	return int(c.Num), true
}

func decodeYesNo(c sheet.Cell) (bool, bool) {
	if c.Kind != sheet.KindString {
		return false, false
	}
	switch c.Str {
	case "Y":
		return true, true
	case "N":
		return false, true
	}
	return false, false
}
