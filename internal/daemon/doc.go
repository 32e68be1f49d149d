// Package daemon exposes the analysis pipeline over HTTP.
//
// The server carries two surfaces: a small JSON API under /api for
// programmatic callers and a single HTML page at / for humans pasting
// video URLs into a form. Both surfaces run the same pipeline; the
// daemon only handles transport, bearer-token auth, and rendering.
// Analysis semantics live in internal/pipeline.
package daemon
