package config

import (
	"errors"
	"fmt"
)

// Security protocol names accepted in configuration. The set is closed;
// anything else is a configuration error, fatal at startup.
var knownSecurityProtocols = map[string]bool{
	"none":    true,
	"basic":   true,
	"oauth2":  true,
	"forward": true,
}

// Validate checks the configuration for errors that must stop startup.
// Failures here are configuration errors, never part of the per-run error
// path.
func Validate(cfg Config) error {
	var errs []error

	switch cfg.Registry.Type {
	case RegistryTypeHTTP:
		if cfg.Registry.URL == "" {
			errs = append(errs, errors.New("registry.url is required for the http registry"))
		}
	case RegistryTypeStatic:
		if len(cfg.Registry.Static) == 0 {
			errs = append(errs, errors.New("registry.static must declare at least one service"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown registry type %q", cfg.Registry.Type))
	}

	if err := validateAggregator("aggregation.health", cfg.Aggregation.Health); err != nil {
		errs = append(errs, err)
	}
	if err := validateAggregator("aggregation.mappings", cfg.Aggregation.Mappings); err != nil {
		errs = append(errs, err)
	}

	for i, vn := range cfg.Aggregation.VirtualNodes {
		if vn.ID == "" {
			errs = append(errs, fmt.Errorf("aggregation.virtualNodes[%d]: id is required", i))
		}
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", cfg.Server.Port))
	}

	return errors.Join(errs...)
}

func validateAggregator(section string, cfg AggregatorConfig) error {
	if !cfg.Enabled {
		return nil
	}

	var errs []error
	if cfg.Path == "" {
		errs = append(errs, fmt.Errorf("%s.path is required", section))
	}
	if cfg.MaxInFlight < 0 {
		errs = append(errs, fmt.Errorf("%s.maxInFlight must not be negative", section))
	}
	if !knownSecurityProtocols[cfg.Security] {
		errs = append(errs, fmt.Errorf("%s.security: unknown protocol %q", section, cfg.Security))
	}
	if cfg.Security == "basic" && (cfg.BasicAuth.Username == "" || cfg.BasicAuth.Password == "") {
		errs = append(errs, fmt.Errorf("%s.basicAuth: username and password are required", section))
	}
	if cfg.Security == "oauth2" && (cfg.OAuth2.TokenURL == "" || cfg.OAuth2.ClientID == "") {
		errs = append(errs, fmt.Errorf("%s.oauth2: tokenUrl and clientId are required", section))
	}
	return errors.Join(errs...)
}
