package registry

import "context"

// ServiceInstance is one network location of a registered service. The
// aggregation core only consumes instances, it never constructs them.
type ServiceInstance struct {
	ID       string            `json:"id"`
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	Secure   bool              `json:"secure,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ServiceRegistry enumerates the services known to the runtime environment
// and their instances.
//
// InstancesFor returning an empty slice is a valid, non-error result: the
// service is registered but currently has no live instance.
type ServiceRegistry interface {
	ListServiceIDs(ctx context.Context) ([]string, error)
	InstancesFor(ctx context.Context, serviceID string) ([]ServiceInstance, error)
}
