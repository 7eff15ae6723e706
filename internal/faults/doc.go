// Package faults defines the error markers shared across the CLI and the
// dashboard.
//
// Failures are tagged with a sentinel (configuration, parse, validation, not
// found, fetch, decode) via Wrap so callers can classify them without string
// matching. HTTPStatus translates a tagged error into the response code the
// dashboard returns for it.
package faults
