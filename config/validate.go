package config

import (
	"github.com/teranos/cxxbind/errors"
)

// Validate checks that the configuration can drive a generation run
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.WithHint(errors.New("input.path is required"),
			"set input.path in "+FileName+" or CXXBIND_INPUT_PATH")
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty (omit for default \"" + DefaultOutputDir + "\")")
	}

	// 0 disables debouncing, negative is invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	for i, e := range c.Transform.Edits {
		if e == "" {
			return errors.Newf("transform.edits[%d] is empty", i)
		}
	}
	return nil
}
