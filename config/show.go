package config

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cxxbind/errors"
)

// Formats accepted by Render
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render writes v in the named format. v is a *Config or the result of
// Settings.
func Render(w io.Writer, v interface{}, format string) error {
	switch format {
	case FormatTOML, "":
		enc := toml.NewEncoder(w)
		if settings, ok := v.([]SettingInfo); ok {
			// TOML has no top-level arrays
			return errors.Wrap(enc.Encode(map[string][]SettingInfo{"setting": settings}), "encode toml")
		}
		return errors.Wrap(enc.Encode(v), "encode toml")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")
	default:
		return errors.WithHintf(errors.Newf("unknown format %q", format),
			"use one of %s, %s, %s", FormatTOML, FormatYAML, FormatJSON)
	}
}
