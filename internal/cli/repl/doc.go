// Package repl runs the interactive shell.
//
// The package is split by concern:
//
//   - repl.go: the dispatcher loop and its state machine
//   - completer.go: tab completion of command names and paths
//   - history.go: the history store backed by a plain file
//   - lineio.go: line readers for terminals and plain input
//
// A Shell moves through Reading, Tokenizing, Resolving and Executing for
// each line and ends in Exited. Builtins return their side effects as
// data; the Shell applies directory changes and screen clears itself.
package repl
