package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/actisum-cli/internal/utils"
)

const (
	envPrefix      = "ACTISUM"
	configDirName  = ".actisum"
	configFileName = "config.yaml"
	// LegacyFileName is the INI file older installations keep next to their data.
	LegacyFileName = "config.ini"
)

// Cutpoints are the magnitude thresholds of the light, moderate and vigorous bands.
type Cutpoints struct {
	Low      int `mapstructure:"low" yaml:"low"`
	Moderate int `mapstructure:"moderate" yaml:"moderate" validate:"gtfield=Low"`
	Vigorous int `mapstructure:"vigorous" yaml:"vigorous" validate:"gtfield=Moderate"`
}

// Global configuration structure.
type Global struct {
	InputFile    string    `mapstructure:"input_file" yaml:"input_file"`
	InputSheet   string    `mapstructure:"input_sheet" yaml:"input_sheet"`
	OutputFile   string    `mapstructure:"output_file" yaml:"output_file" validate:"required"`
	SkipDays     int       `mapstructure:"skip_days" yaml:"skip_days" validate:"gte=0"`
	WindowDays   int       `mapstructure:"window_days" yaml:"window_days" validate:"gte=1"`
	EpochSeconds int       `mapstructure:"epoch_seconds" yaml:"epoch_seconds" validate:"gte=1,lte=3600"`
	Cutpoints    Cutpoints `mapstructure:"cutpoints" yaml:"cutpoints"`

	// Output extras
	Workers   int    `mapstructure:"workers" yaml:"workers" validate:"gte=1,lte=64"`
	ChartFile string `mapstructure:"chart_file" yaml:"chart_file"`
	Manifest  bool   `mapstructure:"manifest" yaml:"manifest"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

// Default returns the built-in configuration.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_file", "")
	v.SetDefault("input_sheet", "Data")
	v.SetDefault("output_file", "summary.xlsx")
	v.SetDefault("skip_days", 0)
	v.SetDefault("window_days", 7)
	v.SetDefault("epoch_seconds", 15)
	v.SetDefault("cutpoints.low", 100)
	v.SetDefault("cutpoints.moderate", 2000)
	v.SetDefault("cutpoints.vigorous", 6000)
	v.SetDefault("workers", 4)
	v.SetDefault("chart_file", "")
	v.SetDefault("manifest", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// DefaultPath is ~/.actisum/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.actisum/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) (string, error) {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if isLegacy(path) {
		return "", fmt.Errorf("refusing to overwrite legacy %s; save to a .yaml file instead", path)
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > legacy config.ini > defaults.
//
// A cfgFile ending in .ini is read as a legacy file only. Without cfgFile, a config.ini
// in the working directory is honoured underneath ~/.actisum/config.yaml.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	switch {
	case cfgFile != "" && isLegacy(cfgFile):
		if err := applyLegacy(v, cfgFile); err != nil {
			return nil, err
		}
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	default:
		if utils.FileExists(LegacyFileName) {
			if err := applyLegacy(v, LegacyFileName); err != nil {
				return nil, err
			}
		}
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func isLegacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".ini")
}
