// Package logging assembles the structured slog loggers used across podverify.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// standardizes the component prefix convention so dataset, render, and server
// code emit log lines with the same shape. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
