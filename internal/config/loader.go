package config

import (
	"errors"
	"fmt"
	"os"

	"msdashboard/pkg/logging"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file name looked up when no explicit path is given.
const DefaultConfigFile = "msdashboard.yaml"

// LoadConfig loads configuration from the given YAML file, merged over the
// defaults. A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config file found at %s, using defaults", path)
			return config, nil
		}
		return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		// config malformed
		return Config{}, fmt.Errorf("loading config from %s: %w", path, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return config, nil
}
