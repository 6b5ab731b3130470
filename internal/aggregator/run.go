package aggregator

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Run carries the per-run state shared by all concurrent branches of one
// aggregation: the run id, the caller's identity, and the failure record.
//
// The caller's identity is captured once when the run is created and passed
// explicitly into every branch's request construction. Branches run
// concurrently across goroutines, so nothing here may rely on ambient
// per-goroutine state.
type Run struct {
	ID string

	// Authorization is the caller's Authorization header value, forwarded
	// to queried services by the forward security strategy.
	Authorization string

	mu       sync.Mutex
	failed   map[string]bool
	degraded bool
}

// NewRun creates a run with a fresh id and the given caller identity.
func NewRun(authorization string) *Run {
	return &Run{
		ID:            uuid.NewString(),
		Authorization: authorization,
		failed:        make(map[string]bool),
	}
}

// RecordFailure marks a service branch as failed. The branch still
// contributes nothing; this only feeds the completeness indicator.
func (r *Run) RecordFailure(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[serviceID] = true
	r.degraded = true
}

// MarkDegraded flags the run as incomplete without blaming a specific
// service, e.g. when registry enumeration failed.
func (r *Run) MarkDegraded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = true
}

// Degraded reports whether any branch or enumeration attempt failed.
func (r *Run) Degraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.degraded
}

// Failed returns the ids of all failed service branches, sorted.
func (r *Run) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.failed))
	for id := range r.failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
