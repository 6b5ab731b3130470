package graph

import "slices"

// Detail keys that carry well-known meaning across aggregators.
const (
	DetailStatus = "status"
	DetailType   = "type"
	DetailURL    = "url"
	DetailMethod = "method"
)

// Node type values stored under the DetailType key.
const (
	TypeMicroservice = "MICROSERVICE"
	TypeResource     = "RESOURCE"
)

// Node is a vertex of the dependency graph. It represents either a
// microservice or a sub-resource (a disk, a datastore, an HTTP route)
// discovered through another service's report.
//
// Nodes live for the duration of a single aggregation run. Two nodes with
// the same ID observed during one run describe the same logical entity and
// are merged by Builder, never duplicated.
type Node struct {
	ID                string         `json:"id"`
	Details           map[string]any `json:"details"`
	LinkedToNodeIDs   []string       `json:"linkedToNodeIds"`
	LinkedFromNodeIDs []string       `json:"linkedFromNodeIds"`
}

// NewNode creates an empty node with the given id.
func NewNode(id string) *Node {
	return &Node{
		ID:      id,
		Details: make(map[string]any),
	}
}

// LinkTo records a dependency on the node with the given id.
// Adding the same id twice is a no-op; edge slices have set semantics.
func (n *Node) LinkTo(id string) {
	n.LinkedToNodeIDs = addToSet(n.LinkedToNodeIDs, id)
}

// LinkFrom records that the node with the given id depends on this node.
func (n *Node) LinkFrom(id string) {
	n.LinkedFromNodeIDs = addToSet(n.LinkedFromNodeIDs, id)
}

// HasLinkTo reports whether this node depends on the node with the given id.
func (n *Node) HasLinkTo(id string) bool {
	return slices.Contains(n.LinkedToNodeIDs, id)
}

// HasLinkFrom reports whether the node with the given id depends on this node.
func (n *Node) HasLinkFrom(id string) bool {
	return slices.Contains(n.LinkedFromNodeIDs, id)
}

// SetDetail stores a detail value, overwriting any previous value.
func (n *Node) SetDetail(key string, value any) {
	if n.Details == nil {
		n.Details = make(map[string]any)
	}
	n.Details[key] = value
}

// clone returns a deep enough copy for the builder to own: the details map
// and edge slices are copied, detail values are shared.
func (n *Node) clone() *Node {
	c := NewNode(n.ID)
	for k, v := range n.Details {
		c.Details[k] = v
	}
	c.LinkedToNodeIDs = slices.Clone(n.LinkedToNodeIDs)
	c.LinkedFromNodeIDs = slices.Clone(n.LinkedFromNodeIDs)
	return c
}

func addToSet(set []string, id string) []string {
	if slices.Contains(set, id) {
		return set
	}
	return append(set, id)
}
