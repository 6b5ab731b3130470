package aggregator

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"golang.org/x/sync/semaphore"

	"msdashboard/internal/graph"
	"msdashboard/internal/registry"
	"msdashboard/pkg/logging"
)

// NodeAggregator produces the nodes of one metadata kind (health, mappings,
// ...) for all discovered services.
//
// Produce returns a lazy, asynchronous node stream: the channel is closed
// once every branch has finished. The stream contains exactly the
// successfully converted, non-filtered nodes of the services that did not
// fail; failures never escape the aggregator.
type NodeAggregator interface {
	Kind() string
	Produce(ctx context.Context, run *Run) <-chan *graph.Node
}

// Converter turns one fetched payload into zero or more graph nodes.
type Converter interface {
	Convert(serviceID string, payload map[string]any) ([]*graph.Node, error)
}

// Options configures the shared per-kind aggregation pipeline.
type Options struct {
	// Kind names the aggregator, e.g. "health". Set by the constructors.
	Kind string

	// Path is the endpoint queried on each service instance.
	Path string

	// SelfIDs are service ids dropped at discovery time (the gateway
	// itself and other infrastructure services).
	SelfIDs []string

	// FilteredServices drop matching payload entries during conversion and
	// matching node ids after conversion.
	FilteredServices []string

	// RequestHeaders are added verbatim to every outgoing fetch.
	RequestHeaders map[string]string

	// MaxInFlight caps concurrent branches; 0 means unbounded.
	MaxInFlight int64

	// Bounded retry with exponential backoff for enumeration failures.
	RetryAttempts  uint
	RetryBaseDelay time.Duration

	// IgnoredHandlers is consumed by the mappings converter.
	IgnoredHandlers []string
}

// Dependencies are the collaborators every aggregator works against.
type Dependencies struct {
	Registry registry.ServiceRegistry
	Resolver EndpointResolver
	Caller   ServiceCaller
	Strategy Strategy
	Reporter ErrorReporter
}

// Aggregator is the shared pipeline behind every aggregator kind:
// enumerate service ids, then run one concurrent branch per id through
// resolve, secure, fetch, convert and filter. Any branch failure is
// reported and converted into an empty contribution.
type Aggregator struct {
	opts      Options
	deps      Dependencies
	converter Converter
	subsystem string
}

// New creates an aggregator over the given converter. Most callers use
// NewHealth or NewMappings instead.
func New(opts Options, deps Dependencies, converter Converter) *Aggregator {
	if opts.RetryAttempts == 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 500 * time.Millisecond
	}
	if deps.Reporter == nil {
		deps.Reporter = LogReporter{}
	}
	if deps.Strategy == nil {
		deps.Strategy = noneStrategy{}
	}
	return &Aggregator{
		opts:      opts,
		deps:      deps,
		converter: converter,
		subsystem: subsystemFor(opts.Kind),
	}
}

// Kind returns the aggregator kind name.
func (a *Aggregator) Kind() string {
	return a.opts.Kind
}

// Produce runs the pipeline for one aggregation run. The returned channel is
// closed when all branches have finished or the context is cancelled.
func (a *Aggregator) Produce(ctx context.Context, run *Run) <-chan *graph.Node {
	out := make(chan *graph.Node)

	go func() {
		defer close(out)

		ids, err := a.discover(ctx)
		if err != nil {
			a.deps.Reporter.Report("service discovery failed for "+a.opts.Kind+" aggregation", err)
			run.MarkDegraded()
			return
		}
		logging.Info(a.subsystem, "Aggregating %d services", len(ids))

		var sem *semaphore.Weighted
		if a.opts.MaxInFlight > 0 {
			sem = semaphore.NewWeighted(a.opts.MaxInFlight)
		}

		var wg sync.WaitGroup
		for _, id := range ids {
			wg.Add(1)
			go func(serviceID string) {
				defer wg.Done()
				if sem != nil {
					if err := sem.Acquire(ctx, 1); err != nil {
						return
					}
					defer sem.Release(1)
				}
				a.runBranch(ctx, run, serviceID, out)
			}(id)
		}
		wg.Wait()
	}()

	return out
}

// discover enumerates service ids, retrying enumeration failures a bounded
// number of times with exponential backoff. Ids are normalized to lower
// case; configured self ids are dropped.
func (a *Aggregator) discover(ctx context.Context) ([]string, error) {
	var ids []string
	err := retry.Do(
		func() error {
			listed, err := a.deps.Registry.ListServiceIDs(ctx)
			if err != nil {
				return err
			}
			ids = listed
			return nil
		},
		retry.Attempts(a.opts.RetryAttempts),
		retry.Delay(a.opts.RetryBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			a.deps.Reporter.Report("retrying service discovery", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if slices.Contains(a.opts.SelfIDs, id) {
			continue
		}
		filtered = append(filtered, id)
	}
	return filtered, nil
}

// runBranch executes the resolve, secure, fetch, convert and filter steps
// for one service. Every failure stays inside the branch: it is reported,
// recorded on the run, and the branch contributes no nodes.
func (a *Aggregator) runBranch(ctx context.Context, run *Run, serviceID string, out chan<- *graph.Node) {
	nodes, err := a.collect(ctx, run, serviceID)
	if err != nil {
		a.deps.Reporter.Report("aggregation branch failed for service "+serviceID, err)
		run.RecordFailure(serviceID)
		return
	}

	for _, node := range nodes {
		if slices.Contains(a.opts.FilteredServices, node.ID) {
			logging.Debug(a.subsystem, "Filtered node %s", node.ID)
			continue
		}
		select {
		case out <- node:
			logging.Debug(a.subsystem, "Node %s discovered for service %s", node.ID, serviceID)
		case <-ctx.Done():
			return
		}
	}
}

func (a *Aggregator) collect(ctx context.Context, run *Run, serviceID string) ([]*graph.Node, error) {
	instances, err := a.deps.Registry.InstancesFor(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, &ServiceUnavailableError{ServiceID: serviceID}
	}

	url, err := a.deps.Resolver.Resolve(instances[0], a.opts.Path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if err := a.deps.Strategy.Apply(req, run); err != nil {
		return nil, err
	}
	for key, value := range a.opts.RequestHeaders {
		req.Header.Set(key, value)
	}

	payload, err := a.deps.Caller.Fetch(serviceID, req)
	if err != nil {
		return nil, err
	}

	return a.converter.Convert(serviceID, payload)
}

func subsystemFor(kind string) string {
	if kind == "" {
		return "Aggregator"
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + "Aggregator"
}
