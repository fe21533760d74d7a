// Package config loads, normalizes, and validates gradectl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// RESOLVE_SCRIPT_API. The Config type centralizes every knob the CLI needs:
// the bridge socket, host LUT directory, backup and log directories, the
// look library database, and render defaults.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
