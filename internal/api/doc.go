// Package api defines wire-format types and converters for the HTTP API
// layer. It translates internal pipeline, history, and profile models into
// transport-friendly DTOs so handlers never marshal internal types directly.
//
// # Key Types
//
// AnalyzeRequest/AnalysisResult: the analyze endpoint's request and success
// payloads. ErrorResponse carries the user-facing message for failures.
//
// ProfileInfo: one reference accent profile with its display name.
//
// HistoryEntry: a persisted analysis outcome for the history listing.
//
// DependencyStatus/DiagnosticsResponse: external binary availability for the
// diagnostics surface.
//
// # Design Notes
//
// DTOs use snake_case JSON tags matching the analyze endpoint's request
// field. Accent identifiers stay lowercase on the wire; display casing is a
// rendering concern. Timestamps use RFC3339 with milliseconds.
package api
