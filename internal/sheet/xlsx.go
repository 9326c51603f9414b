package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type xlsxOpener struct{}

func (xlsxOpener) CanOpen(filename string) bool { return IsWorkbook(filename) }

// IsWorkbook reports whether filename names an excelize-readable workbook (.xlsx, .xlsm).
func IsWorkbook(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

func (xlsxOpener) Open(path, sheet string) (Source, error) {
	return OpenWorkbook(path, sheet)
}

// workbookSource streams a worksheet row by row through excelize and types each cell
// from the cell's XML type and number format. Rows after the last one pulled are never
// decoded.
type workbookSource struct {
	f          *excelize.File
	sheet      string
	rows       *excelize.Rows
	pos        int
	cur        Row
	err        error
	dateStyles map[int]bool
}

// OpenWorkbook opens the named sheet of an .xlsx workbook. An empty sheet name
// selects the active sheet.
func OpenWorkbook(path, sheet string) (Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		available := f.GetSheetList()
		_ = f.Close()
		return nil, &SheetNotFoundError{File: path, Sheet: sheet, Available: available}
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return &workbookSource{
		f:          f,
		sheet:      sheet,
		rows:       rows,
		pos:        -1,
		dateStyles: make(map[int]bool),
	}, nil
}

// SheetNames lists the sheets of an .xlsx workbook in workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (s *workbookSource) Next() bool {
	if s.err != nil || s.rows == nil {
		s.cur = nil
		return false
	}
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			s.err = fmt.Errorf("read sheet %q: %w", s.sheet, err)
		}
		s.cur = nil
		return false
	}
	s.pos++
	values, err := s.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		s.err = fmt.Errorf("read sheet %q row %d: %w", s.sheet, s.pos+1, err)
		s.cur = nil
		return false
	}
	row := make(Row, len(values))
	for col, v := range values {
		c, err := s.cell(col, s.pos, v)
		if err != nil {
			s.err = err
			s.cur = nil
			return false
		}
		row[col] = c
	}
	s.cur = row
	return true
}

func (s *workbookSource) Row() Row   { return s.cur }
func (s *workbookSource) Err() error { return s.err }

func (s *workbookSource) Close() error {
	if s.f == nil {
		return nil
	}
	var err error
	if s.rows != nil {
		err = s.rows.Close()
		s.rows = nil
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}

func (s *workbookSource) cell(col, row int, raw string) (Cell, error) {
	if raw == "" {
		return Empty(), nil
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, fmt.Errorf("cell coordinates: %w", err)
	}
	typ, err := s.f.GetCellType(s.sheet, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("cell type %s: %w", axis, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return DateTime(ToSerial(t)), nil
		}
		return String(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return String(raw), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return String(raw), nil
	}
	dated, err := s.isDateStyled(axis)
	if err != nil {
		return Cell{}, err
	}
	if dated {
		return DateTime(f), nil
	}
	return Number(f), nil
}

func (s *workbookSource) isDateStyled(axis string) (bool, error) {
	id, err := s.f.GetCellStyle(s.sheet, axis)
	if err != nil {
		return false, fmt.Errorf("cell style %s: %w", axis, err)
	}
	if id == 0 {
		return false, nil
	}
	if dated, ok := s.dateStyles[id]; ok {
		return dated, nil
	}
	style, err := s.f.GetStyle(id)
	if err != nil {
		return false, fmt.Errorf("style %d: %w", id, err)
	}
	var dated bool
	if style.CustomNumFmt != nil {
		dated = isDateFormatCode(*style.CustomNumFmt)
	} else {
		dated = isBuiltinDateFormat(style.NumFmt)
	}
	s.dateStyles[id] = dated
	return dated, nil
}

// isBuiltinDateFormat reports whether a built-in number format id renders a date or time.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or time tokens
// outside quoted literals. Bracketed sections count only as elapsed time ([h], [mm], [ss]);
// colors and conditions such as [Magenta] or [<0] are ignored.
func isDateFormatCode(code string) bool {
	var b, section strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
			section.Reset()
		case r == ']':
			inBracket = false
			if isElapsedSection(section.String()) {
				b.WriteString(section.String())
			}
		case inBracket:
			section.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(b.String(), "ymdhs")
}

// isElapsedSection reports whether s is a run of a single h, m or s token.
func isElapsedSection(s string) bool {
	if s == "" || !strings.ContainsRune("hms", rune(s[0])) {
		return false
	}
	return strings.Trim(s, s[:1]) == ""
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
