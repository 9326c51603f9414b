package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
)

var chartBands = []activity.Band{activity.Sedentary, activity.Light, activity.Moderate, activity.Vigorous}

type chartWriter struct{}

// Render draws minutes per band per day as a stacked bar chart.
func (chartWriter) Render(doc *Document) ([]byte, error) {
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("epoch %ds, cutpoints %d / %d / %d",
		doc.Settings.EpochSeconds, doc.Settings.LowCut, doc.Settings.ModerateCut, doc.Settings.VigorousCut)
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Daily activity",
			Width:     "1000px",
			Height:    "560px",
		}),
		charts.WithTitleOpts(opts.Title{Title: chartTitle(doc), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "minutes"}),
	)

	days := make([]string, len(doc.Rows))
	for i, r := range doc.Rows {
		days[i] = r.Date.Format("Mon 01-02")
	}
	bar.SetXAxis(days)
	for _, b := range chartBands {
		data := make([]opts.BarData, len(doc.Rows))
		for i, r := range doc.Rows {
			data[i] = opts.BarData{Name: days[i], Value: minutes(r.Band(b))}
		}
		bar.AddSeries(b.String(), data, charts.WithBarChartOpts(opts.BarChart{Stack: "bands"}))
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func chartTitle(doc *Document) string {
	if doc.Source == "" {
		return "Daily activity"
	}
	return "Daily activity: " + doc.Source
}

func minutes(d time.Duration) float64 {
	return float64(d/time.Second) / 60
}
