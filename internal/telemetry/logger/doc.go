// Package logger provides structured logging for termsh.
//
// This package wraps log/slog:
//
//   - logger.go: logger configuration, levels and the process default
//   - context.go: context-aware logging with session and command IDs
//   - redact.go: sensitive data redaction
//
// Diagnostics go to stderr or a log file and never mix with command
// output on stdout. The default level is warn so an interactive session
// stays quiet unless something degrades.
package logger
