package config

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.cxxbind/cxxbind.toml
	SourceProject     ConfigSource = "project"     // project cxxbind.toml
	SourceEnvironment ConfigSource = "environment" // CXXBIND_* env vars
	SourceFlag        ConfigSource = "flag"        // command line
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path, env var or flag name
}

// SettingInfo is one effective setting with its origin
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// Settings lists every effective setting, sorted by key, with the source
// that won
func (c *Config) Settings() []SettingInfo {
	var out []SettingInfo
	flattenSettingsWithSources(c.settings, "", c.sources, &out)
	return out
}

// markSettingsFromSource records source for every leaf key of settings
func markSettingsFromSource(settings map[string]interface{}, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

func flattenSettingsWithSources(settings map[string]interface{}, prefix string, sourceMap map[string]SourceInfo, out *[]SettingInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nested, fullKey, sourceMap, out)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}

		// Flags beat the environment
		if info.Source != SourceFlag {
			envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
			if _, ok := os.LookupEnv(envKey); ok {
				info = SourceInfo{Source: SourceEnvironment, Path: envKey}
			}
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}
