package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/cxxbind/config"
	"github.com/teranos/cxxbind/errors"
)

// ConfigCmd manages cxxbind configuration
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, validate or initialize configuration",
	Long: `Display and manage cxxbind configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.cxxbind/cxxbind.toml)
3. Project config (cxxbind.toml, searched up from the working directory, or --config)
4. Environment variables (CXXBIND_* prefix, e.g. CXXBIND_OUTPUT_DIR)
5. Command line flags`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write cxxbind.toml with the effective configuration",
	Long: `Write the effective configuration to cxxbind.toml in dir (default: the
working directory). An existing file is kept as .back1, rotating up to three
backups.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var (
	configFormat  string
	configSources bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", config.FormatTOML, "Output format: toml, yaml, json")
	configShowCmd.Flags().BoolVar(&configSources, "sources", false, "List every setting with the source that set it")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func loadEffective() (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: configFile})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	if configSources {
		return config.Render(cmd.OutOrStdout(), cfg.Settings(), configFormat)
	}
	return config.Render(cmd.OutOrStdout(), cfg, configFormat)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	where := "defaults and environment"
	if cfg.File != "" {
		where = cfg.File
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Configuration is valid (%s)", where)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(err, "directory %s", dir)
	}

	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, config.FileName)
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
	return nil
}
