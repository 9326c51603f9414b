package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Source yields the rows of one sheet in file order.
//
//	for src.Next() {
//	    row := src.Row()
//	}
//	if err := src.Err(); err != nil { ... }
type Source interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Opener opens a row source for a file format it recognizes.
type Opener interface {
	CanOpen(filename string) bool
	Open(path, sheet string) (Source, error)
}

var registry []Opener

// Register adds an opener to the registry.
func Register(o Opener) {
	registry = append(registry, o)
}

// ErrUnsupported indicates no registered opener recognizes the file.
var ErrUnsupported = errors.New("unsupported input format")

// SheetNotFoundError is returned when the requested sheet does not exist in a workbook.
type SheetNotFoundError struct {
	File      string
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet '%s' not found in workbook '%s'. Available sheets: %s",
		e.Sheet, filepath.Base(e.File), strings.Join(e.Available, ", "))
}

// Open selects an opener based on the filename and opens the named sheet.
// Formats without sheets ignore the sheet name.
func Open(path, sheet string) (Source, error) {
	for _, o := range registry {
		if o.CanOpen(path) {
			return o.Open(path, sheet)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func init() {
	Register(xlsxOpener{})
	Register(csvOpener{})
}

// sliceSource serves rows from memory.
type sliceSource struct {
	rows []Row
	pos  int
}

// NewSliceSource returns a Source over rows already in memory.
func NewSliceSource(rows []Row) Source {
	return &sliceSource{rows: rows, pos: -1}
}

func (s *sliceSource) Next() bool {
	if s.pos+1 >= len(s.rows) {
		s.pos = len(s.rows)
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Row() Row {
	if s.pos < 0 || s.pos >= len(s.rows) {
		return nil
	}
	return s.rows[s.pos]
}

func (s *sliceSource) Err() error   { return nil }
func (s *sliceSource) Close() error { return nil }
