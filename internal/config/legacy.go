package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// legacyKey locates one value of the old INI layout and the current key it maps to.
type legacyKey struct {
	section, name string
	key           string
	integer       bool
}

var legacyKeys = []legacyKey{
	{section: "general", name: "input_file", key: "input_file"},
	{section: "general", name: "input_file_sheet", key: "input_sheet"},
	{section: "parsing", name: "skip_days_num", key: "skip_days", integer: true},
	{section: "parsing", name: "day_window_size", key: "window_days", integer: true},
}

// applyLegacy layers recognised INI values over the defaults. Unknown sections and keys
// are ignored. Section and key names match case-insensitively.
func applyLegacy(v *viper.Viper, path string) error {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return fmt.Errorf("load legacy config %s: %w", path, err)
	}
	for _, lk := range legacyKeys {
		sec, err := f.GetSection(lk.section)
		if err != nil || !sec.HasKey(lk.name) {
			continue
		}
		k := sec.Key(lk.name)
		if !lk.integer {
			v.SetDefault(lk.key, k.String())
			continue
		}
		n, err := k.Int()
		if err != nil {
			return fmt.Errorf("legacy config %s: %s.%s: invalid integer %q", path, lk.section, lk.name, k.String())
		}
		v.SetDefault(lk.key, n)
	}
	return nil
}
