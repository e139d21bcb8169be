package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// waitDelay bounds how long output is drained after the child is killed.
const waitDelay = time.Second

// Outcome is the result of one external command.
type Outcome struct {
	// Output is the combined stdout and stderr, one trailing newline removed.
	Output   string
	ExitCode int
	Duration time.Duration
	// Err is nil on success, otherwise an ExecutionError.
	Err error
}

// Text returns what the shell prints for the outcome: the captured output,
// or the diagnostic when there is none.
func (o Outcome) Text() string {
	if o.Output != "" || o.Err == nil {
		return o.Output
	}
	return o.Err.Error()
}

// Executor runs external commands.
type Executor struct {
	timeout atomic.Int64
	stdin   io.Reader
	env     []string
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout bounds each command's run time. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.timeout.Store(int64(d))
	}
}

// WithStdin connects the child's standard input.
func WithStdin(r io.Reader) Option {
	return func(e *Executor) {
		e.stdin = r
	}
}

// WithEnv sets the child environment. Nil inherits the shell's environment.
func WithEnv(env []string) Option {
	return func(e *Executor) {
		e.env = env
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTimeout changes the timeout for subsequent commands.
func (e *Executor) SetTimeout(d time.Duration) {
	e.timeout.Store(int64(d))
}

// Timeout returns the current timeout.
func (e *Executor) Timeout() time.Duration {
	return time.Duration(e.timeout.Load())
}

// Run executes name with args in dir and waits for it to finish.
func (e *Executor) Run(ctx context.Context, dir, name string, args []string) Outcome {
	path, err := e.resolve(dir, name)
	if err != nil {
		return Outcome{ExitCode: -1, Err: commandError(name, err)}
	}

	timeout := e.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Args[0] = name
	cmd.Dir = dir
	cmd.Env = e.env
	cmd.Stdin = e.stdin
	cmd.WaitDelay = waitDelay

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	runErr := cmd.Run()
	out := Outcome{
		Output:   strings.TrimSuffix(buf.String(), "\n"),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case runErr == nil:
	case timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded):
		out.Err = commandError(name, domain.ErrTimeout.WithDetails("after "+timeout.String()))
	case isExitError(runErr):
		out.Err = commandError(name, domain.ErrExitStatus.WithDetails(fmt.Sprint(out.ExitCode)).WithCause(runErr))
	default:
		out.ExitCode = -1
		out.Err = commandError(name, domain.ErrExecFailed.WithCause(runErr))
	}
	return out
}

// resolve finds the executable for name. Names containing a path
// separator are taken relative to dir; others are searched on PATH.
func (e *Executor) resolve(dir, name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		p, err := exec.LookPath(path)
		if err != nil {
			return "", domain.ErrCommandNotFound.WithCause(err)
		}
		return p, nil
	}

	p, err := exec.LookPath(name)
	if err != nil {
		return "", domain.ErrCommandNotFound.WithCause(err)
	}
	return p, nil
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// Error is an ExecutionError attributed to a command name.
type Error struct {
	Name string
	Err  *domain.DomainError
}

func commandError(name string, err error) *Error {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.ErrExecFailed.WithCause(err)
	}
	return &Error{Name: name, Err: de}
}

// Error renders "<name>: <reason>", e.g. "foo: command not found".
func (e *Error) Error() string {
	switch e.Err.Code {
	case domain.ErrCommandNotFound.Code:
		return e.Name + ": command not found"
	case domain.ErrExitStatus.Code, domain.ErrTimeout.Code:
		return e.Name + ": " + e.Err.Message + " " + e.Err.Details
	case domain.ErrExecFailed.Code:
		if e.Err.Cause != nil {
			return e.Name + ": " + e.Err.Message + ": " + e.Err.Cause.Error()
		}
	}
	return e.Name + ": " + e.Err.Text()
}

// Unwrap returns the domain error.
func (e *Error) Unwrap() error {
	return e.Err
}
