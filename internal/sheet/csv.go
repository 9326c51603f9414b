package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

type csvOpener struct{}

func (csvOpener) CanOpen(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Open ignores the sheet name; a delimited export has a single table.
func (csvOpener) Open(path, _ string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		r.Comma = '\t'
	}
	return &csvSource{f: f, r: r}, nil
}

// csvSource infers cell types from text: numbers, ISO datetimes and clock times
// become numeric cells, everything else stays a string.
type csvSource struct {
	f   *os.File
	r   *csv.Reader
	cur Row
	err error
}

func (s *csvSource) Next() bool {
	if s.err != nil {
		return false
	}
	rec, err := s.r.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = fmt.Errorf("read csv: %w", err)
		}
		s.cur = nil
		return false
	}
	row := make(Row, len(rec))
	for i, v := range rec {
		row[i] = inferCell(v)
	}
	s.cur = row
	return true
}

func (s *csvSource) Row() Row   { return s.cur }
func (s *csvSource) Err() error { return s.err }

func (s *csvSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

func inferCell(v string) Cell {
	if v == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return Number(f)
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return DateTime(ToSerial(t))
		}
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
			return DateTime(float64(secs) / secondsPerDay)
		}
	}
	return String(v)
}
