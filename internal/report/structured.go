package report

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

// dayRecord is the serialized form of a summary row. Durations appear both as
// wrapped clocks and as whole seconds.
type dayRecord struct {
	Day             int     `json:"day" yaml:"day"`
	Date            string  `json:"date" yaml:"date"`
	Weekday         string  `json:"weekday" yaml:"weekday"`
	Weekend         bool    `json:"weekend" yaml:"weekend"`
	Samples         int     `json:"samples" yaml:"samples"`
	Sedentary       string  `json:"sedentary" yaml:"sedentary"`
	Low             string  `json:"low" yaml:"low"`
	Moderate        string  `json:"moderate" yaml:"moderate"`
	Vigorous        string  `json:"vigorous" yaml:"vigorous"`
	NonZero         string  `json:"non_zero" yaml:"non_zero"`
	Zero            string  `json:"zero" yaml:"zero"`
	Empty           string  `json:"empty" yaml:"empty"`
	SedentarySec    int64   `json:"sedentary_seconds" yaml:"sedentary_seconds"`
	LowSec          int64   `json:"low_seconds" yaml:"low_seconds"`
	ModerateSec     int64   `json:"moderate_seconds" yaml:"moderate_seconds"`
	VigorousSec     int64   `json:"vigorous_seconds" yaml:"vigorous_seconds"`
	NonZeroSec      int64   `json:"non_zero_seconds" yaml:"non_zero_seconds"`
	ZeroSec         int64   `json:"zero_seconds" yaml:"zero_seconds"`
	EmptySec        int64   `json:"empty_seconds" yaml:"empty_seconds"`
	TotalCounts     int64   `json:"total_counts" yaml:"total_counts"`
	CountsPerMinute float64 `json:"counts_per_minute" yaml:"counts_per_minute"`
	CountsPerEpoch  float64 `json:"counts_per_epoch" yaml:"counts_per_epoch"`
}

type docRecord struct {
	Source    string      `json:"source,omitempty" yaml:"source,omitempty"`
	Sheet     string      `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	RunID     string      `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Generated string      `json:"generated,omitempty" yaml:"generated,omitempty"`
	Settings  Settings    `json:"settings" yaml:"settings"`
	Days      []dayRecord `json:"days" yaml:"days"`
}

func seconds(d time.Duration) int64 { return int64(d / time.Second) }

func toRecord(doc *Document) docRecord {
	rec := docRecord{
		Source:   doc.Source,
		Sheet:    doc.Sheet,
		RunID:    doc.RunID,
		Settings: doc.Settings,
		Days:     make([]dayRecord, 0, len(doc.Rows)),
	}
	if !doc.Generated.IsZero() {
		rec.Generated = doc.Generated.UTC().Format(time.RFC3339)
	}
	for _, r := range doc.Rows {
		rec.Days = append(rec.Days, dayRecord{
			Day:             r.Day,
			Date:            r.Date.Format(time.DateOnly),
			Weekday:         r.Weekday.String(),
			Weekend:         r.Weekend(),
			Samples:         r.Samples,
			Sedentary:       activity.Clock(r.Sedentary),
			Low:             activity.Clock(r.Low),
			Moderate:        activity.Clock(r.Moderate),
			Vigorous:        activity.Clock(r.Vigorous),
			NonZero:         activity.Clock(r.NonZero),
			Zero:            activity.Clock(r.Zero),
			Empty:           activity.Clock(r.Empty),
			SedentarySec:    seconds(r.Sedentary),
			LowSec:          seconds(r.Low),
			ModerateSec:     seconds(r.Moderate),
			VigorousSec:     seconds(r.Vigorous),
			NonZeroSec:      seconds(r.NonZero),
			ZeroSec:         seconds(r.Zero),
			EmptySec:        seconds(r.Empty),
			TotalCounts:     r.TotalCounts,
			CountsPerMinute: r.CountsPerMinute,
			CountsPerEpoch:  r.CountsPerEpoch,
		})
	}
	return rec
}

type jsonWriter struct{}

func (jsonWriter) Render(doc *Document) ([]byte, error) {
	return utils.PrettyJSON(toRecord(doc))
}

type yamlWriter struct{}

func (yamlWriter) Render(doc *Document) ([]byte, error) {
	b, err := yaml.Marshal(toRecord(doc))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}
