// Package errs defines the closed set of error kinds the core interpreter
// can raise and the source-excerpt formatter used to render them.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error kinds the interpreter can raise.
type Kind string

const (
	BadIndex          Kind = "BadIndex"
	NoStackFrame      Kind = "NoStackFrame"
	TypeMismatch      Kind = "TypeMismatch"
	NotAnLvalue       Kind = "NotAnLvalue"
	StackUnderflow    Kind = "StackUnderflow"
	Locked            Kind = "Locked"
	DuplicateModule   Kind = "DuplicateModule"
	UnimplementedOp   Kind = "UnimplementedOpcode"
	CorruptedSave     Kind = "CorruptedSave"
	IOError           Kind = "IOError"
	BadFormat         Kind = "BadFormat"
	UserPresentable   Kind = "UserPresentable"
)

// Location pinpoints an error to a scenario/line/column triple.
type Location struct {
	Scenario int
	Line     int
	Column   int
}

// Error is the single error type the core raises. It wraps an optional
// cause, carries a Kind for policy decisions in the driver loop (§7), and
// an optional Location; the source line for caret rendering is passed to
// Format separately.
type Error struct {
	Kind       Kind
	Message    string
	Location   Location
	Op         string // operation name, filled in by the dispatcher on rethrow
	Informative string // secondary message for UserPresentable errors
	cause      error
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, errs.New(errs.BadIndex, "")) matches any BadIndex error
// in err's chain. KindOf extracts the Kind directly.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// WithLocation attaches scenario/line/column context to the error.
func (e *Error) WithLocation(loc Location) *Error {
	e.Location = loc
	return e
}

// WithOp annotates the error with the operation name that raised it, so a
// rethrow at the dispatcher can attribute the failure to the opcode that
// raised it.
func (e *Error) WithOp(name string) *Error {
	e.Op = name
	return e
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, and
// reports whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
