package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/actisum-cli/internal/manifest"
)

var (
	sumFlags      windowFlags
	sumOutput     string
	sumChart      string
	sumNoManifest bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize one accelerometer export into a daily activity report",
	Long: `Summarize reads the export (input_file from config when no file is given), keeps the
configured window of days and writes one row per day. The report format follows the
output extension: .xlsx, .csv, .md, .json, .yaml or .html (chart).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := sumFlags.effective(cmd)
		if err != nil {
			return err
		}
		input := c.InputFile
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return errors.New("no input file: pass one or set input_file in config")
		}
		output := c.OutputFile
		if cmd.Flags().Changed("output") {
			output = sumOutput
		}
		chart := c.ChartFile
		if cmd.Flags().Changed("chart") {
			chart = sumChart
		}
		if sumNoManifest {
			c.Manifest = false
		}

		runID := manifest.NewRunID()
		log := newLogger(runID)
		defer func() { _ = log.Sync() }()

		res, err := runPipeline(cmd.Context(), c, input, log)
		if err != nil {
			return err
		}
		printStatsWarnings(input, res.Stats, len(res.Rows))
		manifestPath, err := writeOutputs(c, runID, input, output, chart, res)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Summarized %d day(s) from %s → %s\n", len(res.Rows), input, output)
		if chart != "" {
			fmt.Printf("✓ Chart written to %s\n", chart)
		}
		if manifestPath != "" {
			fmt.Printf("✓ Manifest written to %s\n", manifestPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	sumFlags.register(summarizeCmd)
	summarizeCmd.Flags().StringVarP(&sumOutput, "output", "o", "", "report file; format follows the extension (default from config)")
	summarizeCmd.Flags().StringVar(&sumChart, "chart", "", "also write an HTML chart of band minutes per day")
	summarizeCmd.Flags().BoolVar(&sumNoManifest, "no-manifest", false, "do not write <output>.manifest.json")
}
