// Package config loads, normalizes, and validates karaokeds configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Every directory the pipeline touches is
// derived from a single data directory unless it is overridden explicitly, so
// the intake, indexed, parsed, and refined layouts stay consistent with each
// other.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical file extensions, and clear validation errors.
package config
