package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// Options controls where Load looks for configuration
type Options struct {
	// File names the project file explicitly and disables the upward search
	File string
	// Dir starts the upward search; defaults to the working directory
	Dir string
	// Home holds .cxxbind/cxxbind.toml; defaults to the user's home directory
	Home string
	// Overrides are applied last, e.g. values of command line flags
	Overrides map[string]interface{}
}

// Load builds a fresh configuration from every source. Each call rereads
// the files, so watch mode picks up edits.
func Load(opts Options) (*Config, error) {
	v, sources, file, err := newViper(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.File = file
	cfg.sources = sources
	cfg.settings = v.AllSettings()
	return &cfg, nil
}

func newViper(opts Options) (*viper.Viper, map[string]SourceInfo, string, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	sources := make(map[string]SourceInfo)

	if userFile := userConfigPath(opts.Home); userFile != "" {
		if _, err := os.Stat(userFile); err == nil {
			if err := mergeFile(v, userFile, SourceUser, sources); err != nil {
				return nil, nil, "", err
			}
		}
	}

	projectFile := opts.File
	if projectFile != "" {
		if _, err := os.Stat(projectFile); err != nil {
			return nil, nil, "", errors.Wrapf(err, "config file %s", projectFile)
		}
	} else {
		projectFile = findProjectConfig(opts.Dir)
	}
	if projectFile != "" {
		abs, err := filepath.Abs(projectFile)
		if err == nil {
			projectFile = abs
		}
		if err := mergeFile(v, projectFile, SourceProject, sources); err != nil {
			return nil, nil, "", err
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
		sources[key] = SourceInfo{Source: SourceFlag, Path: "--" + strings.ReplaceAll(key, ".", "-")}
	}

	return v, sources, projectFile, nil
}

// mergeFile deep-merges one TOML file into v. Keys set in lower files and
// absent here survive.
func mergeFile(v *viper.Viper, path string, source ConfigSource, sources map[string]SourceInfo) error {
	fv := viper.New()
	fv.SetConfigFile(path)
	fv.SetConfigType("toml")
	if err := fv.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	settings := fv.AllSettings()
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	markSettingsFromSource(settings, "", source, path, sources)
	logger.Debugw("Merged config file", logger.FieldFile, path, "source", string(source))
	return nil
}

func userConfigPath(home string) string {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return ""
		}
	}
	return filepath.Join(home, ".cxxbind", FileName)
}

// findProjectConfig walks up from dir looking for cxxbind.toml and returns
// the first one found, or "" when the filesystem root is reached
func findProjectConfig(dir string) string {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return ""
		}
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
