// Package report persists benchmark runs in a local SQLite database so
// previous dataset scores can be listed, inspected, and pruned later.
package report
