// Package executor runs external commands on behalf of the shell.
//
// A command runs to completion in the session's working directory with
// stdout and stderr captured together. Failures are reported as
// ExecutionErrors from the domain taxonomy rather than returned to the loop:
// a missing executable, a non-zero exit, a start failure or an exceeded
// timeout each render as one line of text prefixed with the command name.
package executor
