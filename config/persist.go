package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/cxxbind/errors"
	"github.com/teranos/cxxbind/logger"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before
// overwriting path
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back3 := path + ".back3"
	back2 := path + ".back2"
	back1 := path + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Not fatal; the rotation below overwrites it
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err.Error())
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// Save writes cfg to path as TOML, keeping up to three backups of the
// previous file
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Infow("Wrote config", logger.FieldFile, path)
	return nil
}
