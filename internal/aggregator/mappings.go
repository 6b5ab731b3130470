package aggregator

import (
	"fmt"
	"regexp"
	"strings"

	"msdashboard/internal/graph"
)

// KindMappings names the route-mappings aggregator.
const KindMappings = "mappings"

// NewMappings creates the aggregator for HTTP route mapping payloads.
func NewMappings(opts Options, deps Dependencies) *Aggregator {
	opts.Kind = KindMappings
	return New(opts, deps, &MappingsConverter{
		IgnoredHandlers: opts.IgnoredHandlers,
		Reporter:        deps.Reporter,
	})
}

// routeSignature matches route keys of the form
// "{[/endpoint1],methods=[GET],produces=[application/json]}" as exposed by
// Spring Boot's mappings endpoint. Only the path and method groups are used.
var routeSignature = regexp.MustCompile(`\{\[([^\]]+)\](?:,methods=\[([^\]]*)\])?`)

// MappingsConverter turns a route-mappings payload into graph nodes.
//
// Each payload entry maps a route signature onto metadata that contains the
// handler method signature. Routes handled by framework-internal code are
// skipped; each remaining route becomes a resource node linked from the
// owning service node. A malformed entry fails only itself: it is reported
// and skipped.
type MappingsConverter struct {
	// IgnoredHandlers are handler-signature prefixes considered
	// framework-internal.
	IgnoredHandlers []string
	Reporter        ErrorReporter
}

// Convert implements Converter.
func (c *MappingsConverter) Convert(serviceID string, payload map[string]any) ([]*graph.Node, error) {
	top := graph.NewNode(serviceID)
	top.SetDetail(graph.DetailType, graph.TypeMicroservice)
	nodes := []*graph.Node{top}

	for _, key := range sortedKeys(payload) {
		route, err := c.convertEntry(serviceID, key, payload[key])
		if err != nil {
			c.report("skipping malformed mappings entry from "+serviceID, err)
			continue
		}
		if route == nil {
			continue
		}
		top.LinkTo(route.ID)
		route.LinkFrom(top.ID)
		nodes = append(nodes, route)
	}

	return nodes, nil
}

// convertEntry converts one payload entry. It returns (nil, nil) for
// entries that are intentionally skipped.
func (c *MappingsConverter) convertEntry(serviceID, key string, value any) (*graph.Node, error) {
	entry, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("entry %q is not an object", key)
	}
	handler, ok := entry["method"].(string)
	if !ok || handler == "" {
		return nil, fmt.Errorf("entry %q has no handler method signature", key)
	}
	if c.isFrameworkHandler(handler) {
		return nil, nil
	}

	match := routeSignature.FindStringSubmatch(key)
	if match == nil {
		return nil, fmt.Errorf("entry %q has no parseable route signature", key)
	}
	path := strings.TrimSpace(match[1])
	if path == "" {
		return nil, fmt.Errorf("entry %q has an empty route path", key)
	}

	route := graph.NewNode(path)
	route.SetDetail(graph.DetailType, graph.TypeResource)
	route.SetDetail(graph.DetailURL, path)
	if methods := strings.TrimSpace(match[2]); methods != "" {
		route.SetDetail("methods", splitMethods(methods))
	}
	route.SetDetail("handler", handler)
	return route, nil
}

func (c *MappingsConverter) isFrameworkHandler(handler string) bool {
	for _, prefix := range c.IgnoredHandlers {
		if strings.Contains(handler, prefix) {
			return true
		}
	}
	return false
}

func (c *MappingsConverter) report(msg string, err error) {
	if c.Reporter == nil {
		return
	}
	c.Reporter.Report(msg, err)
}

func splitMethods(raw string) []string {
	parts := strings.Split(raw, ",")
	methods := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			methods = append(methods, p)
		}
	}
	return methods
}
