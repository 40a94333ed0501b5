package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultOutputDir  = "gen"
	DefaultDebounceMS = 500

	// DefaultDirPermissions is used for ~/.cxxbind and the output directory
	DefaultDirPermissions = 0750
)

// SetDefaults registers every known key. Keys without a default are not
// visible to environment overrides, so each one gets a value here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("library.name", "")
	v.SetDefault("input.path", "")
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("transform.script", "")
	v.SetDefault("transform.edits", []string{})
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}
