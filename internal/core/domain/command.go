package domain

import (
	"fmt"
	"strings"
)

// Invocation is a resolved command line: the first token and the remainder.
type Invocation struct {
	Name string
	Args []string
	Raw  string // line as typed, before tokenization
}

// NewInvocation builds an Invocation from a token sequence.
// It returns false when tokens is empty.
func NewInvocation(raw string, tokens []string) (Invocation, bool) {
	if len(tokens) == 0 {
		return Invocation{}, false
	}
	return Invocation{
		Name: tokens[0],
		Args: tokens[1:],
		Raw:  raw,
	}, true
}

// Result is the outcome of a builtin.
//
// Side effects are returned as data and applied by the dispatcher.
type Result struct {
	// Output is the text to print, possibly multi-line, possibly empty.
	// Diagnostics are already rendered inline.
	Output string

	// Errors collects the diagnostics included in Output.
	Errors []error

	// Notices are degraded-mode notices. They are not failures.
	Notices []error

	// Chdir, when non-empty, is the absolute directory the session moves to.
	Chdir string

	// Clear requests the terminal display to be cleared.
	Clear bool
}

// Failed reports whether the builtin produced any diagnostic.
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

// TextResult returns a Result carrying only output.
func TextResult(output string) Result {
	return Result{Output: output}
}

// ErrorResult returns a Result with a single diagnostic as its output.
func ErrorResult(err error) Result {
	return Result{Output: err.Error(), Errors: []error{err}}
}

// Lines accumulates output lines and diagnostics for multi-target builtins.
type Lines struct {
	lines  []string
	errors []error
}

// Add appends an output line.
func (l *Lines) Add(line string) {
	l.lines = append(l.lines, line)
}

// Fail appends a diagnostic line.
func (l *Lines) Fail(err error) {
	l.lines = append(l.lines, err.Error())
	l.errors = append(l.errors, err)
}

// Result joins the collected lines with newlines.
func (l *Lines) Result() Result {
	return Result{
		Output: strings.Join(l.lines, "\n"),
		Errors: l.errors,
	}
}

// HistoryEntry is one accepted input line and its 1-based sequence number.
type HistoryEntry struct {
	Seq  int    `json:"seq" yaml:"seq"`
	Text string `json:"text" yaml:"text"`
}

// String renders the entry as "N: text".
func (e HistoryEntry) String() string {
	return fmt.Sprintf("%d: %s", e.Seq, e.Text)
}

// Candidate is a completion candidate.
type Candidate struct {
	Text string
	Dir  bool
}

// String renders the candidate, directories with a trailing slash.
func (c Candidate) String() string {
	if c.Dir {
		return c.Text + "/"
	}
	return c.Text
}
