// Package graph defines the dependency-graph data model shared by all
// aggregators: nodes with free-form details and symmetric directed edges,
// and the builder that merges partial node views by identity.
package graph
