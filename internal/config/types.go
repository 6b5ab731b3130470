package config

// Config is the top-level configuration structure for msdashboard.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Registry    RegistryConfig    `yaml:"registry"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// ServerConfig configures the HTTP endpoint that serves the combined graph.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
	Port int    `yaml:"port,omitempty"` // Port for the graph endpoint (default: 8000)
}

// Registry client types.
const (
	RegistryTypeHTTP   = "http"
	RegistryTypeStatic = "static"
)

// RegistryConfig selects and configures the service registry client.
type RegistryConfig struct {
	Type           string                      `yaml:"type,omitempty"`    // "http" or "static" (default: http)
	URL            string                      `yaml:"url,omitempty"`     // Base URL of the discovery server (http type)
	TimeoutSeconds int                         `yaml:"timeoutSeconds,omitempty"`
	Static         map[string][]InstanceConfig `yaml:"static,omitempty"` // Declared services (static type)
}

// InstanceConfig declares one service instance for the static registry.
type InstanceConfig struct {
	ID       string            `yaml:"id,omitempty"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Secure   bool              `yaml:"secure,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// AggregationConfig configures the aggregation run as a whole.
type AggregationConfig struct {
	// SelfIDs are service ids excluded from discovery entirely, typically
	// the gateway's own id and other infrastructure services.
	SelfIDs []string `yaml:"selfIds,omitempty"`

	Health   AggregatorConfig `yaml:"health"`
	Mappings AggregatorConfig `yaml:"mappings"`

	// VirtualNodes are operator-declared nodes merged into every run's
	// combined graph, e.g. external systems no aggregator can discover.
	VirtualNodes []VirtualNodeConfig `yaml:"virtualNodes,omitempty"`
}

// AggregatorConfig is the per-kind configuration shared by all aggregators.
type AggregatorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // Endpoint path queried on each instance

	// FilteredServices are dropped both as payload entries during
	// conversion and as node ids after conversion.
	FilteredServices []string `yaml:"filteredServices,omitempty"`

	// RequestHeaders are added verbatim to every outgoing fetch.
	RequestHeaders map[string]string `yaml:"requestHeaders,omitempty"`

	// Security selects the protocol used to authenticate outgoing fetches:
	// none, basic, oauth2 or forward.
	Security  string          `yaml:"security,omitempty"`
	BasicAuth BasicAuthConfig `yaml:"basicAuth,omitempty"`
	OAuth2    OAuth2Config    `yaml:"oauth2,omitempty"`

	// MaxInFlight caps concurrent fetches for this aggregator; 0 means
	// unbounded.
	MaxInFlight int64 `yaml:"maxInFlight,omitempty"`

	// Bounded retry for registry enumeration failures.
	RetryAttempts        uint `yaml:"retryAttempts,omitempty"`
	RetryBaseDelayMillis int  `yaml:"retryBaseDelayMillis,omitempty"`

	// TimeoutSeconds bounds a single fetch round trip.
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`

	// IgnoredHandlers are handler-signature prefixes whose routes are
	// skipped by the mappings converter (framework-internal endpoints).
	IgnoredHandlers []string `yaml:"ignoredHandlers,omitempty"`
}

// BasicAuthConfig carries credentials for the basic security protocol.
type BasicAuthConfig struct {
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// OAuth2Config carries client-credentials settings for the oauth2 security
// protocol.
type OAuth2Config struct {
	TokenURL     string   `yaml:"tokenUrl,omitempty"`
	ClientID     string   `yaml:"clientId,omitempty"`
	ClientSecret string   `yaml:"clientSecret,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

// VirtualNodeConfig declares a node that is merged into the combined graph
// without being discovered.
type VirtualNodeConfig struct {
	ID       string         `yaml:"id"`
	Details  map[string]any `yaml:"details,omitempty"`
	LinkedTo []string       `yaml:"linkedTo,omitempty"`
}
