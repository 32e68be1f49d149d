// Package history persists analysis outcomes to a local SQLite database.
//
// The store is append-only: every pipeline run adds one row, successful or
// not, and rows only leave through an explicit clear. Store satisfies
// pipeline.Sink so the daemon can hang it directly off the orchestrator.
package history
