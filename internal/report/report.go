package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

// Settings echoes the parameters a report was produced with.
type Settings struct {
	SkipDays     int `json:"skip_days" yaml:"skip_days"`
	WindowDays   int `json:"window_days" yaml:"window_days"`
	EpochSeconds int `json:"epoch_seconds" yaml:"epoch_seconds"`
	LowCut       int `json:"cutpoint_low" yaml:"cutpoint_low"`
	ModerateCut  int `json:"cutpoint_moderate" yaml:"cutpoint_moderate"`
	VigorousCut  int `json:"cutpoint_vigorous" yaml:"cutpoint_vigorous"`
}

// SettingsFrom builds Settings from the aggregator and window options.
func SettingsFrom(agg *activity.Aggregator, skip, window int) Settings {
	c := agg.Cutpoints()
	return Settings{
		SkipDays:     skip,
		WindowDays:   window,
		EpochSeconds: agg.EpochSeconds(),
		LowCut:       c.Low,
		ModerateCut:  c.Moderate,
		VigorousCut:  c.Vigorous,
	}
}

// Document is everything a writer renders.
type Document struct {
	Source    string
	Sheet     string
	RunID     string
	Generated time.Time
	Settings  Settings
	Rows      []activity.SummaryRow
}

// Columns is the fixed column order shared by the tabular writers.
var Columns = []string{
	"Day", "Date", "Weekday", "Weekend", "Samples",
	"Sedentary", "Low", "Moderate", "Vigorous",
	"Non-zero", "Zero", "Empty",
	"Total counts", "Counts/min", "Counts/epoch",
}

// Writer renders a document into file contents.
type Writer interface {
	Render(doc *Document) ([]byte, error)
}

// ErrUnsupportedFormat is returned for an output extension with no writer.
var ErrUnsupportedFormat = errors.New("unsupported report format")

var writers = map[string]Writer{
	".xlsx": xlsxWriter{},
	".csv":  csvWriter{},
	".md":   markdownWriter{},
	".json": jsonWriter{},
	".yaml": yamlWriter{},
	".yml":  yamlWriter{},
	".html": chartWriter{},
}

// Formats lists the supported output extensions.
func Formats() []string {
	return []string{".xlsx", ".csv", ".md", ".json", ".yaml", ".html"}
}

// ForPath picks a writer from the output file extension.
func ForPath(path string) (Writer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	w, ok := writers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (use one of %s)", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}
	return w, nil
}

// Write renders doc with the writer matching path and writes it atomically.
func Write(path string, doc *Document) error {
	w, err := ForPath(path)
	if err != nil {
		return err
	}
	b, err := w.Render(doc)
	if err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

func weekendLabel(r activity.SummaryRow) string {
	if r.Weekend() {
		return "yes"
	}
	return "no"
}

// textCells renders a row as strings in Columns order.
func textCells(r activity.SummaryRow) []string {
	return []string{
		fmt.Sprintf("%d", r.Day),
		r.Date.Format(time.DateOnly),
		r.Weekday.String(),
		weekendLabel(r),
		fmt.Sprintf("%d", r.Samples),
		activity.Clock(r.Sedentary),
		activity.Clock(r.Low),
		activity.Clock(r.Moderate),
		activity.Clock(r.Vigorous),
		activity.Clock(r.NonZero),
		activity.Clock(r.Zero),
		activity.Clock(r.Empty),
		fmt.Sprintf("%d", r.TotalCounts),
		formatRate(r.CountsPerMinute),
		formatRate(r.CountsPerEpoch),
	}
}

func formatRate(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
