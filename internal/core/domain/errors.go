package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a shell error with a structured error code.
// Codes follow the format SH-<FAMILY>-<NNNN>; the family selects the
// error category reported by KindOf.
type DomainError struct {
	Code    string // Error code (e.g., "SH-TRGT-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Text returns the user-facing form of the error, without the code.
func (e *DomainError) Text() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Kind is the category of a shell error.
type Kind int

const (
	KindNone Kind = iota
	KindSyntax
	KindTarget
	KindExecution
	KindDegraded
)

// String returns the category name.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindTarget:
		return "TargetError"
	case KindExecution:
		return "ExecutionError"
	case KindDegraded:
		return "DegradedModeNotice"
	default:
		return "None"
	}
}

// KindOf returns the category of err, derived from its code family.
// Errors that carry no DomainError are KindNone.
func KindOf(err error) Kind {
	code := GetErrorCode(err)
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return KindNone
	}
	switch parts[1] {
	case "SYNT":
		return KindSyntax
	case "TRGT":
		return KindTarget
	case "EXEC":
		return KindExecution
	case "DGRD":
		return KindDegraded
	default:
		return KindNone
	}
}

// ============================================================================
// Syntax Errors (SYNT)
// ============================================================================

var (
	// ErrUnterminatedQuote indicates a quoted field was never closed.
	ErrUnterminatedQuote = NewDomainError("SH-SYNT-4001", "unterminated quote")

	// ErrDanglingEscape indicates the line ends with a lone backslash.
	ErrDanglingEscape = NewDomainError("SH-SYNT-4002", "dangling escape")
)

// ============================================================================
// Target Errors (TRGT)
// ============================================================================

var (
	// ErrMissingOperand indicates a builtin was called without required operands.
	ErrMissingOperand = NewDomainError("SH-TRGT-4000", "missing operand")

	// ErrNotADirectory indicates a directory was required.
	ErrNotADirectory = NewDomainError("SH-TRGT-4001", "Not a directory")

	// ErrIsADirectory indicates a non-directory was required.
	ErrIsADirectory = NewDomainError("SH-TRGT-4002", "Is a directory")

	// ErrInvalidArgument indicates an unrecognized flag or flag value.
	ErrInvalidArgument = NewDomainError("SH-TRGT-4003", "invalid argument")

	// ErrPermissionDenied indicates the target is not accessible.
	ErrPermissionDenied = NewDomainError("SH-TRGT-4030", "Permission denied")

	// ErrTargetNotFound indicates the target does not exist.
	ErrTargetNotFound = NewDomainError("SH-TRGT-4040", "No such file or directory")

	// ErrTargetExists indicates the target already exists.
	ErrTargetExists = NewDomainError("SH-TRGT-4090", "File exists")

	// ErrDirNotEmpty indicates a directory still has entries.
	ErrDirNotEmpty = NewDomainError("SH-TRGT-4091", "Directory not empty")

	// ErrTargetFailed indicates any other filesystem failure.
	ErrTargetFailed = NewDomainError("SH-TRGT-5000", "operation failed")
)

// ============================================================================
// Execution Errors (EXEC)
// ============================================================================

var (
	// ErrCommandNotFound indicates no executable matched the command name.
	ErrCommandNotFound = NewDomainError("SH-EXEC-4040", "command not found")

	// ErrExitStatus indicates an external command exited non-zero.
	ErrExitStatus = NewDomainError("SH-EXEC-5000", "exit status")

	// ErrBuiltinFailed indicates a builtin handler failed unexpectedly.
	ErrBuiltinFailed = NewDomainError("SH-EXEC-5001", "error")

	// ErrTimeout indicates an external command exceeded the configured timeout.
	ErrTimeout = NewDomainError("SH-EXEC-5040", "timed out")

	// ErrExecFailed indicates the process could not be started.
	ErrExecFailed = NewDomainError("SH-EXEC-5002", "cannot execute")
)

// ============================================================================
// Degraded Mode Notices (DGRD)
// ============================================================================

var (
	// ErrStatsUnavailable indicates detailed system statistics are not available.
	ErrStatsUnavailable = NewDomainError("SH-DGRD-2000", "detailed statistics unavailable")

	// ErrHistoryUnavailable indicates the history file could not be read or written.
	ErrHistoryUnavailable = NewDomainError("SH-DGRD-2001", "history unavailable")

	// ErrCompletionSkipped indicates a completion source was skipped.
	ErrCompletionSkipped = NewDomainError("SH-DGRD-2002", "completion source skipped")

	// ErrLineEditingUnavailable indicates the terminal does not support line editing.
	ErrLineEditingUnavailable = NewDomainError("SH-DGRD-2003", "line editing unavailable")
)
