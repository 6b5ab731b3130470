package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/graph"
)

// stubAggregator emits a fixed node set and optionally records a failure.
type stubAggregator struct {
	kind   string
	nodes  []*graph.Node
	failed string
}

func (s *stubAggregator) Kind() string { return s.kind }

func (s *stubAggregator) Produce(ctx context.Context, run *aggregator.Run) <-chan *graph.Node {
	out := make(chan *graph.Node)
	go func() {
		defer close(out)
		if s.failed != "" {
			run.RecordFailure(s.failed)
		}
		for _, n := range s.nodes {
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func healthView() *graph.Node {
	n := graph.NewNode("orders")
	n.SetDetail(graph.DetailStatus, "UP")
	n.SetDetail(graph.DetailType, graph.TypeMicroservice)
	n.LinkTo("db")
	return n
}

func mappingsView() *graph.Node {
	n := graph.NewNode("orders")
	n.SetDetail(graph.DetailType, graph.TypeMicroservice)
	n.LinkTo("/orders")
	return n
}

func nodeByID(nodes []*graph.Node, id string) *graph.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func TestOrchestrator_MergesOverlappingViewsByIdentity(t *testing.T) {
	o := New([]aggregator.NodeAggregator{
		&stubAggregator{kind: "health", nodes: []*graph.Node{healthView()}},
		&stubAggregator{kind: "mappings", nodes: []*graph.Node{mappingsView()}},
	}, nil)

	result := o.Aggregate(context.Background(), aggregator.NewRun(""))

	orders := nodeByID(result.Nodes, "orders")
	require.NotNil(t, orders)
	assert.Equal(t, "UP", orders.Details[graph.DetailStatus])
	assert.Equal(t, graph.TypeMicroservice, orders.Details[graph.DetailType])
	assert.ElementsMatch(t, []string{"db", "/orders"}, orders.LinkedToNodeIDs)

	// Edge endpoints exist with their reverse links.
	db := nodeByID(result.Nodes, "db")
	require.NotNil(t, db)
	assert.True(t, db.HasLinkFrom("orders"))

	assert.False(t, result.Partial)
	assert.Empty(t, result.Failed)
}

func TestOrchestrator_ResultIsIndependentOfAggregatorOrder(t *testing.T) {
	forward := New([]aggregator.NodeAggregator{
		&stubAggregator{kind: "health", nodes: []*graph.Node{healthView()}},
		&stubAggregator{kind: "mappings", nodes: []*graph.Node{mappingsView()}},
	}, nil)
	reverse := New([]aggregator.NodeAggregator{
		&stubAggregator{kind: "mappings", nodes: []*graph.Node{mappingsView()}},
		&stubAggregator{kind: "health", nodes: []*graph.Node{healthView()}},
	}, nil)

	a := forward.Aggregate(context.Background(), aggregator.NewRun(""))
	b := reverse.Aggregate(context.Background(), aggregator.NewRun(""))

	assert.Equal(t, a.Nodes, b.Nodes)
}

func TestOrchestrator_BranchFailureSetsPartial(t *testing.T) {
	o := New([]aggregator.NodeAggregator{
		&stubAggregator{kind: "health", nodes: []*graph.Node{healthView()}, failed: "billing"},
	}, nil)

	result := o.Aggregate(context.Background(), aggregator.NewRun(""))

	assert.True(t, result.Partial)
	assert.Equal(t, []string{"billing"}, result.Failed)
	assert.NotNil(t, nodeByID(result.Nodes, "orders"), "degraded runs still return the successful nodes")
}

func TestOrchestrator_VirtualNodesAreMergedIn(t *testing.T) {
	legacy := graph.NewNode("legacy-billing")
	legacy.SetDetail(graph.DetailType, graph.TypeMicroservice)
	legacy.LinkTo("orders")

	o := New([]aggregator.NodeAggregator{
		&stubAggregator{kind: "health", nodes: []*graph.Node{healthView()}},
	}, []*graph.Node{legacy})

	result := o.Aggregate(context.Background(), aggregator.NewRun(""))

	virtual := nodeByID(result.Nodes, "legacy-billing")
	require.NotNil(t, virtual)
	assert.True(t, virtual.HasLinkTo("orders"))
	assert.True(t, nodeByID(result.Nodes, "orders").HasLinkFrom("legacy-billing"))
}

func TestOrchestrator_EmptyRun(t *testing.T) {
	o := New(nil, nil)

	result := o.Aggregate(context.Background(), aggregator.NewRun(""))

	assert.Empty(t, result.Nodes)
	assert.False(t, result.Partial)
	assert.NotEmpty(t, result.RunID)
}
