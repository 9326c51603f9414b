package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cfgpkg "github.com/KaramelBytes/actisum-cli/internal/config"
	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Actisum configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(currentConfig())
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Print(string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := *currentConfig()
		if err := setKey(&c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		path, err := cfgpkg.Save(&c, cfgFile)
		if err != nil {
			return err
		}
		cfg = &c
		fmt.Printf("✓ Saved %s to %s\n", key, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		if utils.FileExists(path) && !configInitForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if _, err := cfgpkg.Save(cfgpkg.Default(), path); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote default config to %s\n", path)
		if utils.FileExists(cfgpkg.LegacyFileName) {
			fmt.Fprintf(os.Stderr, "⚠ %s in the working directory still applies underneath this file\n", cfgpkg.LegacyFileName)
		}
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "input_file":
		c.InputFile = val
	case "input_sheet":
		c.InputSheet = val
	case "output_file":
		c.OutputFile = val
	case "chart_file":
		c.ChartFile = val
	case "skip_days":
		c.SkipDays, err = atoi()
	case "window_days":
		c.WindowDays, err = atoi()
	case "epoch_seconds":
		c.EpochSeconds, err = atoi()
	case "cutpoints.low":
		c.Cutpoints.Low, err = atoi()
	case "cutpoints.moderate":
		c.Cutpoints.Moderate, err = atoi()
	case "cutpoints.vigorous":
		c.Cutpoints.Vigorous, err = atoi()
	case "workers":
		c.Workers, err = atoi()
	case "manifest":
		b, perr := strconv.ParseBool(val)
		if perr != nil {
			return fmt.Errorf("invalid bool for manifest: %v", val)
		}
		c.Manifest = b
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}
