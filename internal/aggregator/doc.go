// Package aggregator implements the aggregation engine: per-kind node
// aggregators that discover services, fetch their self-reported metadata
// and convert it into graph nodes.
//
// Every aggregator shares the same pipeline shape. Service ids are
// enumerated from the registry (with bounded, backed-off retry on
// enumeration failure) and each id then flows through its own concurrent
// branch: resolve the first live instance, build the request, apply the
// configured security strategy, fetch, convert, filter. A failing branch is
// reported and contributes nothing; it can never abort the other branches
// or the aggregator itself.
//
// The caller's identity and the failure record travel on the Run value,
// which is threaded explicitly into every branch.
package aggregator
