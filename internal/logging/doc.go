// Package logging assembles the structured slog loggers used by trackstrip.
//
// A run always logs to a persistent file; when the operator asks for verbose
// output the same records are teed to the console. Loggers are constructed
// explicitly and passed down, never stored in package state. Component
// loggers and the field constants here keep drop and skip lines uniform so
// the log file can be audited before the generated script is executed.
package logging
