package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// TargetError is a per-target failure reported by a builtin.
//
// It renders the diagnostic shown to the user:
//
//	rm: cannot remove 'a.txt': No such file or directory
//	cat: notes.txt: Is a directory
//	mv: missing operand
type TargetError struct {
	Command string // builtin name
	Op      string // optional verb phrase, e.g. "cannot remove"
	Target  string // target as typed by the user
	Err     error
}

// Error implements the error interface.
func (e *TargetError) Error() string {
	switch {
	case e.Target == "":
		return fmt.Sprintf("%s: %s", e.Command, Reason(e.Err))
	case e.Op != "":
		return fmt.Sprintf("%s: %s '%s': %s", e.Command, e.Op, e.Target, Reason(e.Err))
	default:
		return fmt.Sprintf("%s: %s: %s", e.Command, e.Target, Reason(e.Err))
	}
}

// Unwrap returns the classified cause.
func (e *TargetError) Unwrap() error {
	return e.Err
}

// NewTargetError classifies err and wraps it for the given command and target.
func NewTargetError(command, op, target string, err error) *TargetError {
	return &TargetError{
		Command: command,
		Op:      op,
		Target:  target,
		Err:     Classify(err),
	}
}

// Classify maps filesystem errors onto the target error sentinels.
// Errors that are already DomainErrors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, syscall.ENOTEMPTY):
		return ErrDirNotEmpty.WithCause(err)
	case errors.Is(err, syscall.ENOTDIR):
		return ErrNotADirectory.WithCause(err)
	case errors.Is(err, syscall.EISDIR):
		return ErrIsADirectory.WithCause(err)
	case errors.Is(err, fs.ErrNotExist):
		return ErrTargetNotFound.WithCause(err)
	case errors.Is(err, fs.ErrExist):
		return ErrTargetExists.WithCause(err)
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied.WithCause(err)
	default:
		return ErrTargetFailed.WithCause(err)
	}
}

// Reason returns the short user-facing reason for err.
//
// Classified errors use the sentinel message; ErrTargetFailed falls back to
// the innermost OS error text so unusual failures stay informative.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if !errors.As(err, &de) {
		return osReason(err)
	}
	if de.Code == ErrTargetFailed.Code && de.Cause != nil {
		return osReason(de.Cause)
	}
	return de.Text()
}

func osReason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err.Error()
	}
	return err.Error()
}
