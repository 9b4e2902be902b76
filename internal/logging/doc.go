// Package logging constructs the slog loggers used across the subtitle
// pipeline and re-exports the attribute helpers components log with.
//
// Loggers are built once from configuration (level plus console or JSON
// format) and handed to the components that need them; Nop returns a
// discard logger for tests and optional consumers.
package logging
