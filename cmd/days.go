package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var daysFlags windowFlags

var daysCmd = &cobra.Command{
	Use:   "days [file]",
	Short: "List the days kept by the skip/window filter with their sample counts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := daysFlags.effective(cmd)
		if err != nil {
			return err
		}
		input := c.InputFile
		if len(args) == 1 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("no input file: pass one or set input_file in config")
		}

		log := newLogger("")
		defer func() { _ = log.Sync() }()
		window, stats, err := ingestFile(cmd.Context(), c, input, log)
		if err != nil {
			return err
		}

		fmt.Printf("Days retained from %s (skip %d, window %d):\n", input, c.SkipDays, c.WindowDays)
		for i, d := range window.Dates() {
			bucket, _ := window.Bucket(d)
			fmt.Printf("  %2d. %s %-9s %6d samples\n", i+1, d.Format(time.DateOnly), d.Weekday(), len(bucket))
		}
		fmt.Printf("Rows read: %d, blocks: %d, malformed: %d, skipped samples: %d, window exhausted: %t\n",
			stats.Rows, stats.Blocks, stats.Malformed, stats.Skipped, stats.Exhausted)
		printStatsWarnings(input, stats, window.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daysCmd)
	daysFlags.register(daysCmd)
}
