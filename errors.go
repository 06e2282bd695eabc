package rttrace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes a reconstruction failure into the taxonomy a caller
// can branch on without parsing Msg (§7).
type ErrorCode string

const (
	// ErrCodeMalformedEvent means a core's buffer contained an unknown
	// opcode or a truncated record. Fatal to that core's codec.
	ErrCodeMalformedEvent ErrorCode = "malformed event"
	// ErrCodeInconsistentTransition means an event arrived that the state
	// machine's transition table does not admit in its current state.
	// Never returned as an *Error: collected as a Diagnostic instead (§7).
	ErrCodeInconsistentTransition ErrorCode = "inconsistent transition"
	// ErrCodeMissingSyntheticTask means the registry has no scheduler,
	// tick, or idle task for a core the event stream references.
	ErrCodeMissingSyntheticTask ErrorCode = "missing synthetic task"
	// ErrCodeTruncatedRun means the stream ended with one or more jobs
	// still open. Non-fatal: surfaced via Job.Incomplete, not this code,
	// but retained so callers building their own diagnostics can tag it.
	ErrCodeTruncatedRun ErrorCode = "truncated run"
)

// Error is the structured error type returned by Reconstruct and the
// packages it orchestrates. Fields that do not apply to a given failure are
// left at their zero value (Core -1, TaskID 0).
type Error struct {
	Op     string    // the operation that failed, e.g. "decode", "merge", "reconstruct"
	Core   int       // core index, -1 if not applicable
	TaskID uint32    // task id, 0 if not applicable
	Code   ErrorCode
	Msg    string
	Inner  error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Core >= 0 {
		parts = append(parts, fmt.Sprintf("core=%d", e.Core))
	}
	if e.TaskID != 0 {
		parts = append(parts, fmt.Sprintf("task=%d", e.TaskID))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("rttrace: %s (%s)", msg, strings.Join(parts, " "))
	}
	return fmt.Sprintf("rttrace: %s", msg)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.Inner }

// Is compares by Code, so errors.Is(err, &Error{Code: ErrCodeMalformedEvent})
// matches any malformed-event error regardless of which core or op raised it.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError creates a structured error with no core or task context.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Core: -1, Code: code, Msg: msg}
}

// NewCoreError creates a structured error attributed to one core.
func NewCoreError(op string, core int, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Core: core, Code: code, Msg: msg}
}

// NewTaskError creates a structured error attributed to one task on one core.
func NewTaskError(op string, core int, taskID uint32, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Core: core, TaskID: taskID, Code: code, Msg: msg}
}

// WrapError wraps inner with operation context, preserving an existing
// *Error's fields and code if inner already is one.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	var re *Error
	if errors.As(inner, &re) {
		return &Error{Op: op, Core: re.Core, TaskID: re.TaskID, Code: re.Code, Msg: re.Msg, Inner: inner}
	}
	return &Error{Op: op, Core: -1, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
