package aggregator

import (
	"slices"
	"sort"

	"msdashboard/internal/graph"
)

// KindHealth names the health aggregator.
const KindHealth = "health"

// NewHealth creates the aggregator for self-reported health payloads.
func NewHealth(opts Options, deps Dependencies) *Aggregator {
	opts.Kind = KindHealth
	return New(opts, deps, &HealthConverter{FilteredServices: opts.FilteredServices})
}

// HealthConverter turns a health payload into graph nodes.
//
// The payload must report a status at its root. Every other top-level entry
// either describes a dependency (a nested object with its own status, which
// becomes a linked node) or metadata about the service itself (folded into
// the service node's details). Only one nesting level is expanded.
type HealthConverter struct {
	// FilteredServices are payload keys dropped entirely: they become
	// neither a node nor a detail field.
	FilteredServices []string
}

// Convert implements Converter.
func (c *HealthConverter) Convert(serviceID string, payload map[string]any) ([]*graph.Node, error) {
	status, ok := payload[graph.DetailStatus]
	if !ok {
		return nil, &StructuralError{ServiceID: serviceID, Field: graph.DetailStatus}
	}

	top := graph.NewNode(serviceID)
	top.SetDetail(graph.DetailStatus, status)
	top.SetDetail(graph.DetailType, graph.TypeMicroservice)
	nodes := []*graph.Node{top}

	for _, key := range sortedKeys(payload) {
		if key == graph.DetailStatus {
			continue
		}
		if slices.Contains(c.FilteredServices, key) {
			continue
		}

		value := payload[key]
		nested, isMap := value.(map[string]any)
		if !isMap || !hasKey(nested, graph.DetailStatus) {
			// Metadata about the service itself, not a dependency.
			top.SetDetail(key, value)
			continue
		}

		dependency := graph.NewNode(key)
		for nestedKey, nestedValue := range nested {
			dependency.SetDetail(nestedKey, nestedValue)
		}
		top.LinkTo(dependency.ID)
		dependency.LinkFrom(top.ID)
		nodes = append(nodes, dependency)
	}

	return nodes, nil
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
