// Package app bootstraps the application: it initializes logging, loads and
// validates the configuration, and wires the registry client, security
// strategies, aggregators and orchestrator together.
package app
