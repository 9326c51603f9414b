package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

const (
	// SummarySheet holds one row per retained day.
	SummarySheet = "Summary"
	// RunSheet holds the run settings as key/value pairs.
	RunSheet = "Run"
)

var columnWidths = []float64{
	6,  // Day
	12, // Date
	11, // Weekday
	9,  // Weekend
	9,  // Samples
	11, // Sedentary
	11, // Low
	11, // Moderate
	11, // Vigorous
	11, // Non-zero
	11, // Zero
	11, // Empty
	13, // Total counts
	12, // Counts/min
	13, // Counts/epoch
}

type cellKind int

const (
	kindText cellKind = iota
	kindInt
	kindDate
	kindClock
	kindRate
)

var columnKinds = []cellKind{
	kindInt, kindDate, kindText, kindText, kindInt,
	kindClock, kindClock, kindClock, kindClock,
	kindClock, kindClock, kindClock,
	kindInt, kindRate, kindRate,
}

type styleKey struct {
	kind    cellKind
	weekend bool
}

// styleBook creates styles lazily and reuses them.
type styleBook struct {
	f     *excelize.File
	cache map[styleKey]int
}

func (sb *styleBook) get(kind cellKind, weekend bool) (int, error) {
	key := styleKey{kind, weekend}
	if id, ok := sb.cache[key]; ok {
		return id, nil
	}
	st := &excelize.Style{
		Border: thinBorder(),
	}
	switch kind {
	case kindInt:
		st.NumFmt = 1 // 0
	case kindDate:
		f := "yyyy-mm-dd"
		st.CustomNumFmt = &f
	case kindClock:
		f := "hh:mm:ss"
		st.CustomNumFmt = &f
	case kindRate:
		st.NumFmt = 2 // 0.00
	}
	if weekend {
		st.Fill = excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1}
	}
	id, err := sb.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	sb.cache[key] = id
	return id, nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// clockFraction is d modulo one day as a fraction of a day, so hh:mm:ss wraps like Clock.
func clockFraction(d time.Duration) float64 {
	secs := int64(d/time.Second) % 86400
	return float64(secs) / 86400
}

func cellValues(r activity.SummaryRow) []any {
	return []any{
		r.Day,
		sheet.ToSerial(r.Date),
		r.Weekday.String(),
		weekendLabel(r),
		r.Samples,
		clockFraction(r.Sedentary),
		clockFraction(r.Low),
		clockFraction(r.Moderate),
		clockFraction(r.Vigorous),
		clockFraction(r.NonZero),
		clockFraction(r.Zero),
		clockFraction(r.Empty),
		r.TotalCounts,
		r.CountsPerMinute,
		r.CountsPerEpoch,
	}
}

type xlsxWriter struct{}

func (xlsxWriter) Render(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, doc); err != nil {
		return nil, err
	}
	if err := writeRunSheet(f, doc); err != nil {
		return nil, err
	}
	idx, err := f.GetSheetIndex(SummarySheet)
	if err != nil {
		return nil, fmt.Errorf("locate sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, doc *Document) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(SummarySheet, cell, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SummarySheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("convert column number: %w", err)
		}
		if err := f.SetColWidth(SummarySheet, name, name, columnWidths[col]); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	styles := &styleBook{f: f, cache: make(map[styleKey]int)}
	for i, r := range doc.Rows {
		row := i + 2
		for col, value := range cellValues(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("convert coordinates: %w", err)
			}
			if err := f.SetCellValue(SummarySheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
			style, err := styles.get(columnKinds[col], r.Weekend())
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(SummarySheet, cell, cell, style); err != nil {
				return fmt.Errorf("set cell style %s: %w", cell, err)
			}
		}
	}

	return f.SetPanes(SummarySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRunSheet(f *excelize.File, doc *Document) error {
	if _, err := f.NewSheet(RunSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	s := doc.Settings
	pairs := [][2]any{
		{"Source", doc.Source},
		{"Sheet", doc.Sheet},
		{"Run ID", doc.RunID},
		{"Skip days", s.SkipDays},
		{"Window days", s.WindowDays},
		{"Epoch seconds", s.EpochSeconds},
		{"Low cutpoint", s.LowCut},
		{"Moderate cutpoint", s.ModerateCut},
		{"Vigorous cutpoint", s.VigorousCut},
	}
	if !doc.Generated.IsZero() {
		pairs = append(pairs, [2]any{"Generated", doc.Generated.UTC().Format(time.RFC3339)})
	}
	for i, kv := range pairs {
		row := i + 1
		if err := f.SetSheetRow(RunSheet, fmt.Sprintf("A%d", row), &[]any{kv[0], kv[1]}); err != nil {
			return fmt.Errorf("set run row %d: %w", row, err)
		}
	}
	return f.SetColWidth(RunSheet, "A", "A", 20)
}
