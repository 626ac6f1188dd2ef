package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/JeremiahSanders/testingutils-xunit-extras/errors"
)

// Save writes cfg as TOML to path. An existing file is left untouched unless overwrite is set.
func Save(cfg *Config, path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"pass --force to overwrite it",
			)
		}
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
