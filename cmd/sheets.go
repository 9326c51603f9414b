package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/actisum-cli/internal/sheet"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets <file.xlsx>",
	Short: "List the sheets of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := sheet.SheetNames(args[0])
		if err != nil {
			return err
		}
		want := currentConfig().InputSheet
		for i, n := range names {
			marker := " "
			if n == want {
				marker = "*"
			}
			fmt.Printf("%s %d. %s\n", marker, i+1, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
}
