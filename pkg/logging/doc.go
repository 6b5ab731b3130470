// Package logging provides a thin, subsystem-tagged wrapper around log/slog.
//
// Every component logs through the package-level helpers with a subsystem
// name as the first argument, so the emitted records can be filtered by the
// part of the pipeline they came from:
//
//	logging.Info("HealthAggregator", "discovered %d services", n)
//	logging.Error("Registry", err, "enumeration failed")
//
// Init must be called once at startup before any component logs.
package logging
