package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"

	cfgpkg "github.com/KaramelBytes/actisum-cli/internal/config"
)

// resetCommandState clears flag values and Changed markers that persist between
// invocations of the shared command tree.
func resetCommandState() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		reset := func(fl *pflag.Flag) {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	sumFlags.reset()
	sbFlags.reset()
	daysFlags.reset()
	cfg = nil
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	if err := execCmd(args...); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func execCmd(args ...string) error {
	resetCommandState()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()
	defer func() { os.Stdout = old }()
	fn()
	_ = w.Close()
	os.Stdout = old
	return <-done
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	return home
}

var firstDay = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

// writeExport builds a device export: a preamble, a header row and two samples per day.
func writeExport(t *testing.T, path string, days int) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Data"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	set := func(cell string, v any) {
		if err := f.SetCellValue("Data", cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	set("A1", "Subject")
	set("B1", "P-007")
	header := []string{"Date", "Time", "Mag. Value", "Vig", "Mod", "Low", "Sed", "CVig", "CMod"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		set(cell, h)
	}
	row := 4
	for d := 0; d < days; d++ {
		for s, mag := range []int{150, 7000} {
			ts := firstDay.AddDate(0, 0, d).Add(time.Duration(8*3600+s*15) * time.Second)
			set(fmt.Sprintf("A%d", row), ts)
			set(fmt.Sprintf("B%d", row), ts)
			set(fmt.Sprintf("C%d", row), mag)
			for col := 4; col <= 9; col++ {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				set(cell, "N")
			}
			row++
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
}

func TestCLI_SummarizeWritesReportChartAndManifest(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 4)
	out := filepath.Join(home, "out", "summary.xlsx")
	chart := filepath.Join(home, "out", "chart.html")

	runCmd(t, "summarize", input, "-o", out, "--skip", "1", "--window", "2", "--chart", chart)

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 days, got %d rows", len(rows))
	}
	if rows[1][1] != "2023-01-03" || rows[2][1] != "2023-01-04" {
		t.Fatalf("unexpected dates: %v / %v", rows[1][1], rows[2][1])
	}
	if _, err := os.Stat(chart); err != nil {
		t.Fatalf("missing chart: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(home, "out", "summary.xlsx.manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m struct {
		RunID string   `json:"run_id"`
		Dates []string `json:"dates"`
		Stats struct {
			Exhausted bool `json:"exhausted"`
			Skipped   int  `json:"skipped"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if m.RunID == "" || strings.Join(m.Dates, ",") != "2023-01-03,2023-01-04" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if !m.Stats.Exhausted || m.Stats.Skipped != 2 {
		t.Fatalf("unexpected stats: %+v", m.Stats)
	}
}

func TestCLI_SummarizeFromLegacyConfig(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 3)
	ini := filepath.Join(home, "config.ini")
	legacy := fmt.Sprintf("[general]\ninput_file = %s\ninput_file_sheet = Data\n\n[parsing]\nskip_days_num = 0\nday_window_size = 2\n", input)
	if err := os.WriteFile(ini, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write ini: %v", err)
	}
	out := filepath.Join(home, "summary.csv")

	runCmd(t, "--config", ini, "summarize", "-o", out, "--no-manifest")

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 days, got %d lines:\n%s", len(lines), b)
	}
	// 150 is low and 7000 vigorous at the default cutpoints
	if !strings.HasPrefix(lines[1], "1,2023-01-02,Monday,no,2,00:00:00,00:00:15,00:00:00,00:00:15,") {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if _, err := os.Stat(out + ".manifest.json"); !os.IsNotExist(err) {
		t.Fatalf("manifest should not be written with --no-manifest")
	}
}

func TestCLI_SummarizeBatchCollisionSafe(t *testing.T) {
	home := isolate(t)
	for _, d := range []string{"d1", "d2"} {
		if err := os.MkdirAll(filepath.Join(home, d), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		writeExport(t, filepath.Join(home, d, "export.xlsx"), 2)
	}
	outDir := filepath.Join(home, "reports")

	runCmd(t, "summarize-batch", filepath.Join(home, "d*", "export.xlsx"), "--out-dir", outDir, "--format", "csv", "--quiet")

	for _, name := range []string{"export_summary.csv", "export_summary__2.csv", "export_summary.csv.manifest.json", "export_summary__2.csv.manifest.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestCLI_SummarizeBatchRejectsUnknownFormat(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 1)
	if err := execCmd("summarize-batch", input, "--format", "pdf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestCLI_SummarizeRejectsInvalidSettings(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 1)

	err := execCmd("summarize", input, "-o", filepath.Join(home, "x.csv"), "--cut-moderate", "50")
	if err == nil || !strings.Contains(err.Error(), "cutpoints.moderate") {
		t.Fatalf("expected cutpoint validation error, got %v", err)
	}
	err = execCmd("summarize", input, "-o", filepath.Join(home, "x.csv"), "--sheet", "Nope")
	if err == nil || !strings.Contains(err.Error(), "Available sheets: Data") {
		t.Fatalf("expected sheet not found error, got %v", err)
	}
}

func TestCLI_DaysListsRetainedDates(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 5)

	out := captureStdout(t, func() {
		runCmd(t, "days", input, "--skip", "2", "--window", "2")
	})
	for _, want := range []string{"2023-01-04", "2023-01-05", "window exhausted: true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2023-01-03") {
		t.Fatalf("skipped day listed:\n%s", out)
	}
}

func TestCLI_SheetsMarksConfiguredSheet(t *testing.T) {
	home := isolate(t)
	input := filepath.Join(home, "export.xlsx")
	writeExport(t, input, 1)

	out := captureStdout(t, func() { runCmd(t, "sheets", input) })
	if !strings.Contains(out, "* 1. Data") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSheetLabelCoversMacroWorkbooks(t *testing.T) {
	cases := map[string]string{
		"p07.xlsx": "Data",
		"p07.XLSM": "Data",
		"p07.csv":  "",
		"p07.tsv":  "",
	}
	for input, want := range cases {
		if got := sheetLabel(input, "Data"); got != want {
			t.Fatalf("sheetLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCLI_ConfigInitSetShow(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".actisum", "config.yaml")

	runCmd(t, "config", "init")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := execCmd("config", "init"); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}

	runCmd(t, "config", "set", "window_days", "3")
	runCmd(t, "config", "set", "cutpoints.vigorous", "5000")
	if err := execCmd("config", "set", "cutpoints.vigorous", "10"); err == nil {
		t.Fatalf("expected validation error for vigorous below moderate")
	}
	if err := execCmd("config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key error")
	}

	c, err := cfgpkg.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.WindowDays != 3 || c.Cutpoints.Vigorous != 5000 {
		t.Fatalf("unexpected saved config: %+v", c)
	}

	out := captureStdout(t, func() { runCmd(t, "config", "show") })
	if !strings.Contains(out, "window_days: 3") {
		t.Fatalf("show missing window_days:\n%s", out)
	}
}
