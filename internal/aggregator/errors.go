package aggregator

import (
	"fmt"

	"msdashboard/pkg/logging"
)

// StructuralError marks a payload that cannot be interpreted because a
// required field is absent, e.g. a health payload without a root status.
type StructuralError struct {
	ServiceID string
	Field     string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("payload from %s is missing required field %q", e.ServiceID, e.Field)
}

// FetchError marks a failed retrieval: transport failure, timeout, non-2xx
// response or an undecodable body.
type FetchError struct {
	ServiceID  string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s from %s: status %d", e.ServiceID, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s from %s: %v", e.ServiceID, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ServiceUnavailableError marks a discovered service with no live instance.
type ServiceUnavailableError struct {
	ServiceID string
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("no instances found for service %s", e.ServiceID)
}

// ErrorReporter receives system-level failure notifications. Reports are
// fire-and-forget and never alter control flow.
type ErrorReporter interface {
	Report(msg string, cause error)
}

// LogReporter is the default ErrorReporter; it forwards reports to the log.
type LogReporter struct {
	Subsystem string
}

func (r LogReporter) Report(msg string, cause error) {
	subsystem := r.Subsystem
	if subsystem == "" {
		subsystem = "Aggregator"
	}
	logging.Error(subsystem, cause, "%s", msg)
}
