// Package notifications delivers analysis events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Success and failure notifications can be toggled independently so
// a noisy topic can be narrowed to errors only.
//
// Extend this package if you need alternative transports; callers depend only
// on the simple Service interface, and Sink adapts it to the pipeline.
package notifications
