// File: api/errors.go
// Package api defines the contracts and error taxonomy of the ksync library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "fmt"

// Common errors used across the library.
//
// Capacity and contention conditions are always surfaced as typed errors or
// boolean returns; they are never silently dropped. Retry and backoff policy
// belongs to the blocking wrappers (WaitFor, Synchronized), never to the
// lock-free primitives themselves.
var (
	// ErrWouldBlock reports that a try-variant of a lock operation lost to a
	// concurrent holder and the caller chose not to block.
	ErrWouldBlock = fmt.Errorf("operation would block")

	// ErrQueueFull reports that a bounded queue is at capacity. The rejected
	// value always stays with the caller.
	ErrQueueFull = fmt.Errorf("queue is full")

	// ErrTooManyReaders reports that acquiring one more read lock would
	// overflow the reader count into the writer bit. This is a hard capacity
	// error, not a transient contention condition.
	ErrTooManyReaders = fmt.Errorf("too many concurrent readers")

	// ErrExecutorClosed indicates the executor no longer accepts tasks.
	ErrExecutorClosed = fmt.Errorf("executor is closed")

	// ErrNotSupported indicates the operation is unavailable on this platform.
	ErrNotSupported = fmt.Errorf("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeWouldBlock
	ErrCodeResourceExhausted
	ErrCodeNotSupported
	ErrCodeInternal
)

// Error is a structured error carrying a code and optional context,
// for consumers that need more than a sentinel comparison.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
