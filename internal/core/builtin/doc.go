// Package builtin implements the shell's built-in commands.
//
// The Registry is a fixed table indexed by the closed Command enum. Every
// handler is a function of its arguments and the Session; results,
// diagnostics and side effects such as a directory change come back as a
// domain.Result for the dispatcher to apply.
//
// Diagnostics are prefixed with the command name and multi-target
// commands attempt every target:
//
//	termsh:/tmp$ rm a.txt missing.txt
//	rm: cannot remove 'missing.txt': No such file or directory
package builtin
