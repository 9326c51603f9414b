package sheet

import "strconv"

// Kind identifies the type of value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDateTime
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDateTime:
		return "datetime"
	case KindBool:
		return "bool"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Cell is one typed spreadsheet value. DateTime cells carry a serial datetime in Num.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// Row is an ordered sequence of cells as read from a sheet.
type Row []Cell

func Empty() Cell { return Cell{} }
func String(s string) Cell { return Cell{Kind: KindString, Str: s} }
func Number(f float64) Cell { return Cell{Kind: KindNumber, Num: f} }
func DateTime(serial float64) Cell { return Cell{Kind: KindDateTime, Num: serial} }
func Bool(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// IsNumeric reports whether the cell holds a number or a serial datetime.
func (c Cell) IsNumeric() bool { return c.Kind == KindNumber || c.Kind == KindDateTime }

// At returns the cell at index i, or an empty cell when the row is shorter.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// IsBlank reports whether the row has no cells or only empty ones.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
