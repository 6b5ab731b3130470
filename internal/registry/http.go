package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"msdashboard/pkg/logging"
)

const defaultTimeout = 10 * time.Second

// HTTPRegistry queries a discovery server over HTTP. The server is expected
// to expose two JSON endpoints:
//
//	GET {base}/services                    -> ["service-a", "service-b", ...]
//	GET {base}/services/{id}/instances    -> [{"id": ..., "host": ..., "port": ...}, ...]
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRegistry creates a registry client for the given base URL. A zero
// timeout falls back to a 10 second default.
func NewHTTPRegistry(baseURL string, timeout time.Duration) *HTTPRegistry {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPRegistry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ListServiceIDs fetches the ids of all registered services.
func (r *HTTPRegistry) ListServiceIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.getJSON(ctx, r.baseURL+"/services", &ids); err != nil {
		return nil, fmt.Errorf("listing services from registry: %w", err)
	}
	logging.Debug("Registry", "Discovered %d services", len(ids))
	return ids, nil
}

// InstancesFor fetches the live instances of a service.
func (r *HTTPRegistry) InstancesFor(ctx context.Context, serviceID string) ([]ServiceInstance, error) {
	var instances []ServiceInstance
	endpoint := fmt.Sprintf("%s/services/%s/instances", r.baseURL, url.PathEscape(serviceID))
	if err := r.getJSON(ctx, endpoint, &instances); err != nil {
		return nil, fmt.Errorf("listing instances for %s: %w", serviceID, err)
	}
	return instances, nil
}

func (r *HTTPRegistry) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registry returned status %d for %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding registry response: %w", err)
	}
	return nil
}
