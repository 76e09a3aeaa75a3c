// Package logging assembles structured slog loggers and formatting helpers
// used across labdesk.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so catalog and store code tag log
// lines with project and correlation IDs. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
