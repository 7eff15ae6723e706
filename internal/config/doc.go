// Package config loads, normalizes, and validates podverify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// PODVERIFY_BIND. The Config type centralizes every knob the CLI and dashboard
// need, so dataset columns, score thresholds, and output directories are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
