// Package config loads the cxxbind configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the user
// file (~/.cxxbind/cxxbind.toml), the project file (cxxbind.toml found by
// walking up from the working directory, or the file named by --config),
// CXXBIND_* environment variables, then command line flags.
package config

import (
	"path/filepath"
)

// FileName is the project configuration file searched for by Load
const FileName = "cxxbind.toml"

// EnvPrefix prefixes every environment override, e.g. CXXBIND_OUTPUT_DIR
const EnvPrefix = "CXXBIND"

// Config is the effective configuration of one cxxbind invocation
type Config struct {
	Library   LibraryConfig   `mapstructure:"library" toml:"library" yaml:"library" json:"library"`
	Input     InputConfig     `mapstructure:"input" toml:"input" yaml:"input" json:"input"`
	Output    OutputConfig    `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Transform TransformConfig `mapstructure:"transform" toml:"transform" yaml:"transform" json:"transform"`
	Log       LogConfig       `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch     WatchConfig     `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`

	// File is the project file that was read, empty when none was found
	File string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`

	sources  map[string]SourceInfo
	settings map[string]interface{}
}

// LibraryConfig names the generated binding library
type LibraryConfig struct {
	// Name overrides the library name recorded in the AST document
	Name string `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
}

// InputConfig locates the AST document produced by the frontend
type InputConfig struct {
	Path string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// OutputConfig configures where artifacts are written
type OutputConfig struct {
	Dir string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
}

// TransformConfig selects the edits applied before generation
type TransformConfig struct {
	Script string   `mapstructure:"script" toml:"script" yaml:"script" json:"script"`
	Edits  []string `mapstructure:"edits" toml:"edits" yaml:"edits" json:"edits"`
}

// LogConfig configures the logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
}

// WatchConfig configures generate --watch
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// Resolve makes a configured path absolute. Relative paths are taken from
// the directory of the project file when one was read, the working directory
// otherwise.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if c.File != "" {
		return filepath.Join(filepath.Dir(c.File), path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// InputPath is the resolved AST document path
func (c *Config) InputPath() string { return c.Resolve(c.Input.Path) }

// OutputDir is the resolved output directory
func (c *Config) OutputDir() string { return c.Resolve(c.Output.Dir) }

// ScriptPath is the resolved transform script path, empty when unset
func (c *Config) ScriptPath() string { return c.Resolve(c.Transform.Script) }
