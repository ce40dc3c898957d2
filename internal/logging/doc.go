// Package logging assembles structured slog loggers and formatting helpers used
// across karaokeds stages.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can automatically
// tag log lines with batch IDs, stage names, and the file being processed. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
