// Package main provides the entry point for termsh.
//
// termsh is an interactive shell with built-in file and system commands,
// tab completion and persistent history. Lines that do not name a builtin
// run as system commands.
//
// Usage:
//
//	termsh
//	termsh -c 'ls ~/projects'
//	termsh --output json --history-file /tmp/termsh.history
package main
