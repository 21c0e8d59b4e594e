// Package rerr provides the structured error type threaded through every
// fallible operation in the crypto network core, mirroring the tri-modal
// Error domain of the original implementation (internal / host-OS / POSIX).
package rerr

import (
	"fmt"
)

// Domain identifies where a Code originates.
type Domain uint8

const (
	// Internal identifies an enumerated Code from this package.
	Internal Domain = iota
	// HostError wraps an opaque OS status code (e.g. NTSTATUS).
	HostError
	// Posix wraps an opaque errno-like code.
	Posix
)

// Error is a tri-domain, source-preserving error. Only the outermost
// Op/Code pair is meant to be observed by callers; Cause is kept only so
// Go's errors.Is/errors.As keep working through the chain, but Error's
// string form never descends past the outer frame.
type Error struct {
	Domain Domain
	Code   Code
	Op     string
	Cause  error
}

// New creates an originating internal error.
func New(code Code) *Error {
	return &Error{Domain: Internal, Code: code}
}

// FromHost wraps an opaque host OS status code.
func FromHost(status uint32) *Error {
	return &Error{Domain: HostError, Code: Code(status)}
}

// FromPosix wraps an opaque POSIX errno value.
func FromPosix(errno int32) *Error {
	return &Error{Domain: Posix, Code: Code(errno)}
}

// Wrap records a new outer Code at the current call site while discarding
// the inner error's own code — only the outermost failure point is
// observable, per the documented error-chain truncation. The inner error
// is kept as Cause purely so errors.Is/errors.As still traverse the chain;
// it is never rendered.
func Wrap(prior error, code Code) *Error {
	return &Error{Domain: Internal, Code: code, Cause: prior}
}

// Error renders the outermost code only, per the three documented forms:
// "<code>" for internal, "0x<hex>[W]" for host, "<dec>[P]" for POSIX.
func (e *Error) Error() string {
	switch e.Domain {
	case HostError:
		return fmt.Sprintf("0x%x[W]", uint32(e.Code))
	case Posix:
		return fmt.Sprintf("%d[P]", int32(e.Code))
	default:
		return e.Code.String()
	}
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is compares by domain and code, ignoring the cause chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Domain == t.Domain && e.Code == t.Code
}
