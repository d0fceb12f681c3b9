// Package logging provides slog-based structured logging with console and
// JSON handlers, numeric log levels matching the logLevel configuration key,
// and helpers for component-scoped loggers.
package logging
