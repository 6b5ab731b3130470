package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/config"
	"msdashboard/internal/graph"
	"msdashboard/internal/orchestrator"
	"msdashboard/internal/registry"
	"msdashboard/pkg/logging"
)

// Application bundles everything a command needs to run aggregations: the
// loaded configuration and the orchestrator built from it.
//
// Bootstrap happens in two phases: initialize logging and load/validate the
// configuration, then construct the aggregation pipeline. Configuration
// problems (unknown security protocol, malformed sections) fail here, at
// startup, never during a run.
type Application struct {
	config       *Config
	dashboardCfg config.Config
	orchestrator *orchestrator.Orchestrator
}

// NewApplication bootstraps the application from command-line settings.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.Init(appLogLevel, logOutput)

	dashboardCfg, err := config.LoadConfig(cfg.ConfigFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(dashboardCfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	orch, err := BuildOrchestrator(dashboardCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregation pipeline: %w", err)
	}

	logging.Info("Bootstrap", "Application initialized from %s", cfg.ConfigFilePath())
	return &Application{
		config:       cfg,
		dashboardCfg: dashboardCfg,
		orchestrator: orch,
	}, nil
}

// Orchestrator returns the aggregation orchestrator.
func (a *Application) Orchestrator() *orchestrator.Orchestrator {
	return a.orchestrator
}

// DashboardConfig returns the loaded configuration.
func (a *Application) DashboardConfig() config.Config {
	return a.dashboardCfg
}

// BuildOrchestrator constructs the full aggregation pipeline from a
// validated configuration: registry client, per-kind aggregators with their
// security strategies, and the virtual nodes.
func BuildOrchestrator(cfg config.Config) (*orchestrator.Orchestrator, error) {
	reg := buildRegistry(cfg.Registry)

	var aggregators []aggregator.NodeAggregator
	if cfg.Aggregation.Health.Enabled {
		agg, err := buildAggregator(aggregator.KindHealth, cfg.Aggregation.Health, cfg.Aggregation.SelfIDs, reg)
		if err != nil {
			return nil, fmt.Errorf("configuring health aggregator: %w", err)
		}
		aggregators = append(aggregators, agg)
	}
	if cfg.Aggregation.Mappings.Enabled {
		agg, err := buildAggregator(aggregator.KindMappings, cfg.Aggregation.Mappings, cfg.Aggregation.SelfIDs, reg)
		if err != nil {
			return nil, fmt.Errorf("configuring mappings aggregator: %w", err)
		}
		aggregators = append(aggregators, agg)
	}

	return orchestrator.New(aggregators, buildVirtualNodes(cfg.Aggregation.VirtualNodes)), nil
}

func buildRegistry(cfg config.RegistryConfig) registry.ServiceRegistry {
	if cfg.Type == config.RegistryTypeStatic {
		services := make(map[string][]registry.ServiceInstance, len(cfg.Static))
		for id, instances := range cfg.Static {
			converted := make([]registry.ServiceInstance, len(instances))
			for i, inst := range instances {
				converted[i] = registry.ServiceInstance{
					ID:       inst.ID,
					Host:     inst.Host,
					Port:     inst.Port,
					Secure:   inst.Secure,
					Metadata: inst.Metadata,
				}
			}
			services[id] = converted
		}
		return registry.NewStaticRegistry(services)
	}
	return registry.NewHTTPRegistry(cfg.URL, time.Duration(cfg.TimeoutSeconds)*time.Second)
}

func buildAggregator(kind string, cfg config.AggregatorConfig, selfIDs []string, reg registry.ServiceRegistry) (*aggregator.Aggregator, error) {
	protocol, err := aggregator.ParseSecurityProtocol(cfg.Security)
	if err != nil {
		return nil, err
	}

	var oauth *clientcredentials.Config
	if cfg.OAuth2.TokenURL != "" {
		oauth = &clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}
	}
	table := aggregator.NewStrategyTable(aggregator.BasicCredentials{
		Username: cfg.BasicAuth.Username,
		Password: cfg.BasicAuth.Password,
	}, oauth)
	strategy, err := table.Strategy(protocol)
	if err != nil {
		return nil, err
	}

	opts := aggregator.Options{
		Path:             cfg.Path,
		SelfIDs:          selfIDs,
		FilteredServices: cfg.FilteredServices,
		RequestHeaders:   cfg.RequestHeaders,
		MaxInFlight:      cfg.MaxInFlight,
		RetryAttempts:    cfg.RetryAttempts,
		RetryBaseDelay:   time.Duration(cfg.RetryBaseDelayMillis) * time.Millisecond,
		IgnoredHandlers:  cfg.IgnoredHandlers,
	}
	deps := aggregator.Dependencies{
		Registry: reg,
		Resolver: aggregator.MetadataResolver{},
		Caller:   aggregator.NewHTTPCaller(time.Duration(cfg.TimeoutSeconds) * time.Second),
		Strategy: strategy,
	}

	switch kind {
	case aggregator.KindHealth:
		deps.Reporter = aggregator.LogReporter{Subsystem: "HealthAggregator"}
		return aggregator.NewHealth(opts, deps), nil
	case aggregator.KindMappings:
		deps.Reporter = aggregator.LogReporter{Subsystem: "MappingsAggregator"}
		return aggregator.NewMappings(opts, deps), nil
	default:
		return nil, fmt.Errorf("unknown aggregator kind %q", kind)
	}
}

func buildVirtualNodes(configs []config.VirtualNodeConfig) []*graph.Node {
	nodes := make([]*graph.Node, 0, len(configs))
	for _, vc := range configs {
		node := graph.NewNode(vc.ID)
		for key, value := range vc.Details {
			node.SetDetail(key, value)
		}
		for _, target := range vc.LinkedTo {
			node.LinkTo(target)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
