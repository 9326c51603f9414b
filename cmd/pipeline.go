package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
	cfgpkg "github.com/KaramelBytes/actisum-cli/internal/config"
	"github.com/KaramelBytes/actisum-cli/internal/ingest"
	"github.com/KaramelBytes/actisum-cli/internal/manifest"
	"github.com/KaramelBytes/actisum-cli/internal/report"
	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

// windowFlags are the per-run overrides shared by summarize, summarize-batch and days.
type windowFlags struct {
	sheet       string
	skip        int
	window      int
	epoch       int
	cutLow      int
	cutModerate int
	cutVigorous int
	workers     int
}

func (w *windowFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&w.sheet, "sheet", "", "XLSX: sheet name to read (default from config)")
	f.IntVar(&w.skip, "skip", 0, "days to discard from the first date seen (overrides config)")
	f.IntVar(&w.window, "window", 0, "days to keep after skipping (overrides config)")
	f.IntVar(&w.epoch, "epoch", 0, "seconds per sample (overrides config)")
	f.IntVar(&w.cutLow, "cut-low", 0, "low-band cutpoint (overrides config)")
	f.IntVar(&w.cutModerate, "cut-moderate", 0, "moderate-band cutpoint (overrides config)")
	f.IntVar(&w.cutVigorous, "cut-vigorous", 0, "vigorous-band cutpoint (overrides config)")
	f.IntVar(&w.workers, "workers", 0, "days summarized concurrently (overrides config)")
}

// effective returns a validated copy of the loaded config with changed flags applied.
func (w *windowFlags) effective(cmd *cobra.Command) (*cfgpkg.Global, error) {
	c := *currentConfig()
	f := cmd.Flags()
	if f.Changed("sheet") {
		c.InputSheet = w.sheet
	}
	if f.Changed("skip") {
		c.SkipDays = w.skip
	}
	if f.Changed("window") {
		c.WindowDays = w.window
	}
	if f.Changed("epoch") {
		c.EpochSeconds = w.epoch
	}
	if f.Changed("cut-low") {
		c.Cutpoints.Low = w.cutLow
	}
	if f.Changed("cut-moderate") {
		c.Cutpoints.Moderate = w.cutModerate
	}
	if f.Changed("cut-vigorous") {
		c.Cutpoints.Vigorous = w.cutVigorous
	}
	if f.Changed("workers") {
		c.Workers = w.workers
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (w *windowFlags) reset() {
	*w = windowFlags{}
}

// pipelineResult carries everything one input produced.
type pipelineResult struct {
	Window   *activity.SeriesWindow
	Stats    ingest.Stats
	Rows     []activity.SummaryRow
	Settings report.Settings
}

// ingestFile opens input and runs the ingestion pass over it.
func ingestFile(ctx context.Context, c *cfgpkg.Global, input string, log *zap.Logger) (*activity.SeriesWindow, ingest.Stats, error) {
	src, err := sheet.Open(input, c.InputSheet)
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	defer src.Close()
	return ingest.Run(ctx, src, ingest.Options{SkipDays: c.SkipDays, WindowDays: c.WindowDays}, log)
}

// runPipeline ingests input and summarizes every retained day.
func runPipeline(ctx context.Context, c *cfgpkg.Global, input string, log *zap.Logger) (*pipelineResult, error) {
	cut, err := c.ActivityCutpoints()
	if err != nil {
		return nil, err
	}
	agg, err := activity.NewAggregator(c.EpochSeconds, cut)
	if err != nil {
		return nil, err
	}
	window, stats, err := ingestFile(ctx, c, input, log)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", filepath.Base(input), err)
	}
	rows, err := agg.SummarizeWindow(ctx, window, c.Workers)
	if err != nil {
		return nil, err
	}
	return &pipelineResult{
		Window:   window,
		Stats:    stats,
		Rows:     rows,
		Settings: report.SettingsFrom(agg, c.SkipDays, c.WindowDays),
	}, nil
}

// writeOutputs renders the report, the optional chart and the optional manifest.
// It returns the manifest path, or "" when no manifest was written.
func writeOutputs(c *cfgpkg.Global, runID, input, output, chart string, res *pipelineResult) (string, error) {
	doc := &report.Document{
		Source:    filepath.Base(input),
		Sheet:     sheetLabel(input, c.InputSheet),
		RunID:     runID,
		Generated: time.Now(),
		Settings:  res.Settings,
		Rows:      res.Rows,
	}
	if err := report.Write(output, doc); err != nil {
		return "", err
	}
	if chart != "" {
		if err := report.Write(chart, doc); err != nil {
			return "", fmt.Errorf("chart: %w", err)
		}
	}
	if !c.Manifest {
		return "", nil
	}
	m := manifest.New(runID, input, doc.Sheet, output)
	m.Chart = chart
	m.Settings = res.Settings
	m.Stats = res.Stats
	m.SetDates(res.Window.Dates())
	if err := m.Save(); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return m.Path(), nil
}

// sheetLabel is the sheet name for workbooks and empty for flat files.
func sheetLabel(input, sheetName string) string {
	if sheet.IsWorkbook(input) {
		return sheetName
	}
	return ""
}

// printStatsWarnings surfaces recoverable ingestion problems.
func printStatsWarnings(input string, stats ingest.Stats, days int) {
	if stats.Malformed > 0 {
		fmt.Printf("⚠ %s: %d malformed row(s) ended a data block early\n", filepath.Base(input), stats.Malformed)
	}
	if stats.Blocks == 0 {
		fmt.Printf("⚠ %s: no 'Date | Time | Mag. Value' header found\n", filepath.Base(input))
	} else if days == 0 {
		fmt.Printf("⚠ %s: no days retained (skip too large or no data rows)\n", filepath.Base(input))
	}
}
