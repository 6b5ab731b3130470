package aggregator

import (
	"encoding/json"
	"net/http"
	"time"

	"msdashboard/pkg/logging"
)

const defaultFetchTimeout = 10 * time.Second

// ServiceCaller performs the network fetch for a resolved request and
// returns the decoded payload.
type ServiceCaller interface {
	Fetch(serviceID string, req *http.Request) (map[string]any, error)
}

// HTTPCaller fetches JSON payloads over a shared http.Client.
type HTTPCaller struct {
	client *http.Client
}

// NewHTTPCaller creates a caller with the given per-request timeout. A zero
// timeout falls back to 10 seconds.
func NewHTTPCaller(timeout time.Duration) *HTTPCaller {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPCaller{client: &http.Client{Timeout: timeout}}
}

// Fetch executes the request and decodes the JSON body. Transport errors,
// non-2xx responses and undecodable bodies all surface as *FetchError.
func (c *HTTPCaller) Fetch(serviceID string, req *http.Request) (map[string]any, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{ServiceID: serviceID, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{ServiceID: serviceID, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{ServiceID: serviceID, URL: req.URL.String(), Err: err}
	}

	logging.Debug("ServiceCaller", "Fetched payload from %s (%s)", serviceID, req.URL)
	return payload, nil
}
