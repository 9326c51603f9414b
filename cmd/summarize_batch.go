package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/actisum-cli/internal/manifest"
	"github.com/KaramelBytes/actisum-cli/internal/report"
	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

var (
	sbFlags      windowFlags
	sbOutDir     string
	sbFormat     string
	sbCharts     bool
	sbNoManifest bool
	sbQuiet      bool
)

var summarizeBatchCmd = &cobra.Command{
	Use:   "summarize-batch <files...>",
	Short: "Summarize many exports (globs allowed) with progress and collision-safe output names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		c, err := sbFlags.effective(cmd)
		if err != nil {
			return err
		}
		if sbNoManifest {
			c.Manifest = false
		}
		ext := "." + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(sbFormat)), ".")
		if _, err := report.ForPath("x" + ext); err != nil {
			return err
		}
		if sbOutDir != "" {
			if err := utils.EnsureDir(sbOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		taken := map[string]bool{}
		total := len(files)
		for i, path := range files {
			if !sbQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			output, renamed := batchOutputPath(path, ext, taken)
			if renamed && !sbQuiet {
				fmt.Printf("⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(output))
			}
			chart := ""
			if sbCharts {
				chart = utils.UniquePath(utils.ReplaceExt(output, ".html"), taken)
			}

			runID := manifest.NewRunID()
			log := newLogger(runID)
			res, err := runPipeline(cmd.Context(), c, path, log)
			if err != nil {
				_ = log.Sync()
				return err
			}
			if !sbQuiet {
				printStatsWarnings(path, res.Stats, len(res.Rows))
			}
			if _, err := writeOutputs(c, runID, path, output, chart, res); err != nil {
				_ = log.Sync()
				return err
			}
			_ = log.Sync()
			if !sbQuiet {
				fmt.Printf("✓ %d day(s) → %s\n", len(res.Rows), output)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// batchOutputPath names the report for input and reports whether a suffix was needed.
func batchOutputPath(input, ext string, taken map[string]bool) (string, bool) {
	dir := sbOutDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	want := filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+"_summary"+ext)
	got := utils.UniquePath(want, taken)
	return got, got != want
}

func init() {
	rootCmd.AddCommand(summarizeBatchCmd)
	sbFlags.register(summarizeBatchCmd)
	summarizeBatchCmd.Flags().StringVar(&sbOutDir, "out-dir", "", "directory for reports (default: next to each input)")
	summarizeBatchCmd.Flags().StringVar(&sbFormat, "format", "xlsx", "report format: xlsx|csv|md|json|yaml")
	summarizeBatchCmd.Flags().BoolVar(&sbCharts, "charts", false, "also write an HTML chart per input")
	summarizeBatchCmd.Flags().BoolVar(&sbNoManifest, "no-manifest", false, "do not write manifests")
	summarizeBatchCmd.Flags().BoolVar(&sbQuiet, "quiet", false, "suppress progress and non-essential output")
}
