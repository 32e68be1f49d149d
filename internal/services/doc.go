// Package services defines shared utilities consumed by the analysis
// pipeline and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent user-facing messages and HTTP statuses.
//   - Thin abstractions that make command execution from external tools
//     testable.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across the system.
package services
