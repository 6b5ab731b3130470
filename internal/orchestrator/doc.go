// Package orchestrator combines the node streams of all configured
// aggregators into a single deduplicated dependency graph per run.
package orchestrator
