// Package config loads, normalizes, and validates Twang configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TWANG_API_TOKEN. The Config type centralizes every knob the daemon and CLI
// need, allowing work/log directories and analysis tuning to be discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
