package aggregator

import (
	"fmt"
	"strconv"
	"strings"

	"msdashboard/internal/registry"
)

// EndpointResolver produces the URL an aggregator queries on a service
// instance. Resolution is a pure function of instance and endpoint path; a
// failure fails only the calling branch.
type EndpointResolver interface {
	Resolve(instance registry.ServiceInstance, path string) (string, error)
}

// Instance metadata keys honored by MetadataResolver. Services that expose
// their management endpoints on a separate port or under a context path
// advertise it through registry metadata.
const (
	metadataManagementPort = "management.port"
	metadataManagementPath = "management.context-path"
)

// DefaultResolver builds the URL straight from the instance address.
type DefaultResolver struct{}

func (DefaultResolver) Resolve(instance registry.ServiceInstance, path string) (string, error) {
	base, err := baseURL(instance, instance.Port)
	if err != nil {
		return "", err
	}
	return base + normalizePath(path), nil
}

// MetadataResolver honors management.port and management.context-path
// instance metadata and otherwise behaves like DefaultResolver.
type MetadataResolver struct{}

func (MetadataResolver) Resolve(instance registry.ServiceInstance, path string) (string, error) {
	port := instance.Port
	if raw, ok := instance.Metadata[metadataManagementPort]; ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return "", fmt.Errorf("instance %s has invalid %s %q", instance.ID, metadataManagementPort, raw)
		}
		port = parsed
	}

	base, err := baseURL(instance, port)
	if err != nil {
		return "", err
	}
	if contextPath, ok := instance.Metadata[metadataManagementPath]; ok {
		base += normalizePath(contextPath)
	}
	return base + normalizePath(path), nil
}

func baseURL(instance registry.ServiceInstance, port int) (string, error) {
	if instance.Host == "" {
		return "", fmt.Errorf("instance %s has no usable address", instance.ID)
	}
	if port <= 0 {
		return "", fmt.Errorf("instance %s has no usable port", instance.ID)
	}
	scheme := "http"
	if instance.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, instance.Host, port), nil
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
}
