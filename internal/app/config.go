package app

import "msdashboard/internal/config"

// Config holds the command-line level settings of the application.
type Config struct {
	// Debug enables verbose logging across the application.
	Debug bool

	// Silent suppresses all log output; useful when the command's own
	// output is consumed by scripts.
	Silent bool

	// ConfigPath is the configuration file to load. Empty means the
	// default file name in the working directory.
	ConfigPath string
}

// NewConfig creates an application config from command-line flags.
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}

// ConfigFilePath returns the effective configuration file path.
func (c *Config) ConfigFilePath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.DefaultConfigFile
}
