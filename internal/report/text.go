package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
)

type csvWriter struct{}

func (csvWriter) Render(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, r := range doc.Rows {
		if err := w.Write(textCells(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

type markdownWriter struct{}

func (markdownWriter) Render(doc *Document) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Daily activity summary\n\n")
	if doc.Source != "" {
		b.WriteString(fmt.Sprintf("- Source: %s", doc.Source))
		if doc.Sheet != "" {
			b.WriteString(fmt.Sprintf(" (sheet %s)", doc.Sheet))
		}
		b.WriteString("\n")
	}
	s := doc.Settings
	b.WriteString(fmt.Sprintf("- Epoch: %ds, cutpoints %d / %d / %d\n", s.EpochSeconds, s.LowCut, s.ModerateCut, s.VigorousCut))
	b.WriteString(fmt.Sprintf("- Window: skip %d day(s), keep %d day(s)\n", s.SkipDays, s.WindowDays))
	if !doc.Generated.IsZero() {
		b.WriteString(fmt.Sprintf("- Generated: %s\n", doc.Generated.UTC().Format(time.RFC3339)))
	}
	b.WriteString("\n")

	if len(doc.Rows) == 0 {
		b.WriteString("_No days retained._\n")
		return []byte(b.String()), nil
	}
	b.WriteString("| " + strings.Join(Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(Columns)) + "\n")
	for _, r := range doc.Rows {
		b.WriteString("| " + strings.Join(textCells(r), " | ") + " |\n")
	}
	return []byte(b.String()), nil
}
