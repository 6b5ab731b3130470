package config

// GetDefaultConfig returns the default configuration for msdashboard.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8000,
		},
		Registry: RegistryConfig{
			Type:           RegistryTypeHTTP,
			TimeoutSeconds: 10,
		},
		Aggregation: AggregationConfig{
			SelfIDs: []string{"zuul"},
			Health: AggregatorConfig{
				Enabled:              true,
				Path:                 "/health",
				Security:             "none",
				RetryAttempts:        3,
				RetryBaseDelayMillis: 500,
				TimeoutSeconds:       10,
			},
			Mappings: AggregatorConfig{
				Enabled:              true,
				Path:                 "/mappings",
				Security:             "none",
				RetryAttempts:        3,
				RetryBaseDelayMillis: 500,
				TimeoutSeconds:       10,
				IgnoredHandlers:      []string{"org.springframework"},
			},
		},
	}
}
