package graph

import "sort"

// Graph is the combined result of one aggregation run.
//
// Partial is true when at least one service branch or enumeration attempt
// failed during the run, so the node set may be incomplete. Failed lists the
// service ids whose branches contributed nothing because of a failure.
type Graph struct {
	RunID   string   `json:"runId"`
	Nodes   []*Node  `json:"nodes"`
	Partial bool     `json:"partial"`
	Failed  []string `json:"failed,omitempty"`
}

// Builder accumulates nodes from any number of aggregators and merges them
// by identity. It is an explicit keyed accumulator: a map from node id to
// the accumulated node, which makes the merge commutative and idempotent
// with respect to arrival order.
//
// Builder is not safe for concurrent use; callers funnel nodes through a
// single goroutine.
type Builder struct {
	nodes map[string]*Node
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{nodes: make(map[string]*Node)}
}

// Add merges a node into the accumulated graph.
//
// If no node with the same id exists yet, a copy of the incoming node is
// inserted. Otherwise the two partial views are combined: the detail maps
// are unioned with first-write-wins on conflicting keys, and the edge sets
// are unioned. Every edge is then completed symmetrically, so that
// A.LinkedToNodeIDs containing B always implies B.LinkedFromNodeIDs
// containing A. Endpoints referenced by an edge that have not been observed
// yet are created as empty placeholder nodes and filled in when their own
// view arrives.
func (b *Builder) Add(n *Node) {
	if n == nil || n.ID == "" {
		return
	}

	acc, ok := b.nodes[n.ID]
	if !ok {
		acc = n.clone()
		b.nodes[n.ID] = acc
	} else {
		for k, v := range n.Details {
			if _, exists := acc.Details[k]; !exists {
				acc.Details[k] = v
			}
		}
		for _, id := range n.LinkedToNodeIDs {
			acc.LinkTo(id)
		}
		for _, id := range n.LinkedFromNodeIDs {
			acc.LinkFrom(id)
		}
	}

	for _, id := range acc.LinkedToNodeIDs {
		b.ensure(id).LinkFrom(acc.ID)
	}
	for _, id := range acc.LinkedFromNodeIDs {
		b.ensure(id).LinkTo(acc.ID)
	}
}

// Get returns the accumulated node with the given id, or nil.
func (b *Builder) Get(id string) *Node {
	return b.nodes[id]
}

// Len returns the number of distinct node ids accumulated so far.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Nodes returns the accumulated node set, sorted by id, with sorted edge
// sets. The sorting only makes the output deterministic regardless of node
// arrival order; no ordering is guaranteed to consumers.
func (b *Builder) Nodes() []*Node {
	out := make([]*Node, 0, len(b.nodes))
	for _, n := range b.nodes {
		sort.Strings(n.LinkedToNodeIDs)
		sort.Strings(n.LinkedFromNodeIDs)
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Builder) ensure(id string) *Node {
	n, ok := b.nodes[id]
	if !ok {
		n = NewNode(id)
		b.nodes[id] = n
	}
	return n
}
