// Package textutil provides small text helpers shared across components:
// a bounded line buffer for capturing the tail of subprocess output, and
// rune-safe truncation for rendering long values in tables and logs.
package textutil
