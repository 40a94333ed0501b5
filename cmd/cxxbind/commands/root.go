// Package commands implements the cxxbind command line
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/cxxbind/config"
	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
	"github.com/teranos/cxxbind/progress"
)

// Exit codes
const (
	ExitFailure = 1
	// ExitStale is returned by check when committed output differs
	ExitStale = 2
)

// ErrStale marks a check that found out-of-date bindings
var ErrStale = errors.New("generated bindings are out of date")

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	if errors.Is(err, ErrStale) {
		return ExitStale
	}
	return ExitFailure
}

var (
	configFile string
	jsonOutput bool
)

// AddGlobalFlags registers the persistent flags shared by every command
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "Project config file (default: cxxbind.toml found walking up)")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON logs and JSON progress events")
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// InitLogger sets up the global logger before any command runs. The
// config file may turn on JSON logs; flags win over it.
func InitLogger(cmd *cobra.Command, args []string) error {
	json := jsonOutput
	level := verbosity(cmd)
	if cfg, err := config.Load(config.Options{File: configFile}); err == nil {
		if !cmd.Flags().Changed("json") {
			json = cfg.Log.JSON
		}
		if !cmd.Flags().Changed("verbose") {
			level = cfg.Log.Verbosity
		}
	}
	if err := logger.Initialize(json, level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	logger.Debugw("Logger initialized", "verbosity", logger.LevelName(level), "json", json)
	return nil
}

// generationFlags are shared by generate and check
type generationFlags struct {
	input   string
	output  string
	script  string
	library string
	edits   []string
}

func (f *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "AST document produced by the frontend")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory (default \""+config.DefaultOutputDir+"\")")
	cmd.Flags().StringVarP(&f.script, "script", "s", "", "Transform script (TOML)")
	cmd.Flags().StringVar(&f.library, "library", "", "Library name (overrides the AST document)")
	cmd.Flags().StringArrayVarP(&f.edits, "edit", "e", nil, `One-line edit, e.g. "rename-class widget_t Widget" (repeatable)`)
}

// overrides turns the flags the user actually set into config keys
func (f *generationFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	out := make(map[string]interface{})
	set := func(flag, key string, value interface{}) {
		if cmd.Flags().Changed(flag) {
			out[key] = value
		}
	}
	set("input", "input.path", f.input)
	set("output", "output.dir", f.output)
	set("script", "transform.script", f.script)
	set("library", "library.name", f.library)
	return out
}

// loadConfig builds and validates the configuration for cmd. Edits given
// with --edit run after those from the config.
func (f *generationFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: configFile, Overrides: f.overrides(cmd)})
	if err != nil {
		return nil, err
	}
	cfg.Transform.Edits = append(cfg.Transform.Edits, f.edits...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func newEmitter(cmd *cobra.Command) progress.Emitter {
	if jsonOutput {
		return progress.NewJSONEmitter(os.Stdout)
	}
	return progress.NewCLIEmitter(verbosity(cmd))
}
