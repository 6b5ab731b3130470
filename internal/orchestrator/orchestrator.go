package orchestrator

import (
	"context"
	"sync"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/graph"
	"msdashboard/pkg/logging"
)

// Orchestrator runs all configured node aggregators concurrently and merges
// their streams into one combined graph.
//
// It has no partial-failure handling of its own: it only ever sees nodes
// the aggregators produced successfully. Merge conflicts between
// overlapping nodes are resolved by the graph builder.
type Orchestrator struct {
	aggregators  []aggregator.NodeAggregator
	virtualNodes []*graph.Node
}

// New creates an orchestrator over the given aggregators. Virtual nodes are
// operator-declared nodes merged into every run's result.
func New(aggregators []aggregator.NodeAggregator, virtualNodes []*graph.Node) *Orchestrator {
	return &Orchestrator{
		aggregators:  aggregators,
		virtualNodes: virtualNodes,
	}
}

// Aggregate performs one aggregation run: every aggregator produces
// concurrently, all node streams are funneled into a single keyed
// accumulator, and the deduplicated graph is returned. The caller always
// receives a graph; degradation is visible only through the Partial flag
// and the Failed list.
func (o *Orchestrator) Aggregate(ctx context.Context, run *aggregator.Run) *graph.Graph {
	merged := make(chan *graph.Node)

	var wg sync.WaitGroup
	for _, agg := range o.aggregators {
		wg.Add(1)
		go func(a aggregator.NodeAggregator) {
			defer wg.Done()
			for node := range a.Produce(ctx, run) {
				select {
				case merged <- node:
				case <-ctx.Done():
					return
				}
			}
			logging.Debug("Orchestrator", "Aggregator %s completed for run %s", a.Kind(), run.ID)
		}(agg)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	builder := graph.NewBuilder()
	for node := range merged {
		builder.Add(node)
	}
	for _, node := range o.virtualNodes {
		builder.Add(node)
	}

	result := &graph.Graph{
		RunID:   run.ID,
		Nodes:   builder.Nodes(),
		Partial: run.Degraded(),
		Failed:  run.Failed(),
	}
	logging.Info("Orchestrator", "Run %s combined %d nodes from %d aggregators (partial: %t)",
		run.ID, len(result.Nodes), len(o.aggregators), result.Partial)
	return result
}
