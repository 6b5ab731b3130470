package registry

import (
	"context"
	"sort"
	"strings"
)

// StaticRegistry serves a fixed set of services declared in configuration.
// It is useful for small installations without a discovery server and for
// tests.
type StaticRegistry struct {
	services map[string][]ServiceInstance
}

// NewStaticRegistry creates a registry over the given service map. Service
// ids are stored case-insensitively.
func NewStaticRegistry(services map[string][]ServiceInstance) *StaticRegistry {
	normalized := make(map[string][]ServiceInstance, len(services))
	for id, instances := range services {
		normalized[strings.ToLower(id)] = instances
	}
	return &StaticRegistry{services: normalized}
}

// ListServiceIDs returns the declared service ids in sorted order.
func (r *StaticRegistry) ListServiceIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// InstancesFor returns the declared instances for a service id.
func (r *StaticRegistry) InstancesFor(ctx context.Context, serviceID string) ([]ServiceInstance, error) {
	return r.services[strings.ToLower(serviceID)], nil
}
