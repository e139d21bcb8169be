// Package domain defines the core domain models for termsh.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - Invocation: a tokenized command line split into name and arguments
//   - Result: builtin output plus side effects expressed as data
//   - HistoryEntry: a numbered history line
//   - Candidate: a completion candidate
//   - Errors: the coded error taxonomy (syntax, target, execution, degraded)
//
// Every error shown to the user is one of these categories; KindOf
// recovers the category from any wrapped error.
package domain
