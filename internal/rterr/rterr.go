// Package rterr implements the closed runtime-error taxonomy of §7. Both
// the interpreter and the VM construct errors exclusively through this
// package's constructors so that §4.5's "error messages are copied
// verbatim, never paraphrased, between the two engines" holds by
// construction rather than by convention.
package rterr

import (
	"errors"
	"fmt"

	"github.com/atlas-lang/atlas/internal/diag"
)

// Kind is the closed set of runtime error kinds named in §7's table.
type Kind int

const (
	KindTypeError Kind = iota
	KindInvalidStdlibArgument
	KindDivideByZero
	KindInvalidNumericResult
	KindOutOfBounds
	KindInvalidIndex
	KindUnknownFunction
	KindUnknownOpcode
	KindMalformedBytecode
	KindStackUnderflow
	KindCircularImport
	KindIoError
)

func (k Kind) String() string {
	switch k {
	case KindTypeError:
		return "TypeError"
	case KindInvalidStdlibArgument:
		return "InvalidStdlibArgument"
	case KindDivideByZero:
		return "DivideByZero"
	case KindInvalidNumericResult:
		return "InvalidNumericResult"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindInvalidIndex:
		return "InvalidIndex"
	case KindUnknownFunction:
		return "UnknownFunction"
	case KindUnknownOpcode:
		return "UnknownOpcode"
	case KindMalformedBytecode:
		return "MalformedBytecode"
	case KindStackUnderflow:
		return "StackUnderflow"
	case KindCircularImport:
		return "CircularImport"
	case KindIoError:
		return "IoError"
	default:
		return "UnknownError"
	}
}

// Error is a single runtime error: a Kind, a rendered message, and the
// span of the offending source location — for VM errors, derived from the
// chunk's debug-span table (§7 "Propagation").
type Error struct {
	Kind    Kind
	Message string
	Span    diag.Span
	Name    string // set for UnknownFunction, CircularImport
}

func (e *Error) Error() string {
	if e.Span.Zero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s at %s:%d:%d", e.Kind, e.Message, e.Span.File, e.Span.Line, e.Span.Column)
}

func TypeError(span diag.Span, msg string) *Error {
	return &Error{Kind: KindTypeError, Message: msg, Span: span}
}

// InvalidStdlibArgument's msg must name the function and what was
// expected vs received (§4.9, §7).
func InvalidStdlibArgument(span diag.Span, fn, msg string) *Error {
	return &Error{Kind: KindInvalidStdlibArgument, Message: fmt.Sprintf("%s: %s", fn, msg), Span: span}
}

func DivideByZero(span diag.Span) *Error {
	return &Error{Kind: KindDivideByZero, Message: "division by zero", Span: span}
}

func InvalidNumericResult(span diag.Span, op string) *Error {
	return &Error{Kind: KindInvalidNumericResult, Message: fmt.Sprintf("%s produced NaN or Infinity", op), Span: span}
}

func OutOfBounds(span diag.Span, index, length int) *Error {
	return &Error{Kind: KindOutOfBounds, Message: fmt.Sprintf("index %d out of bounds for length %d", index, length), Span: span}
}

func InvalidIndex(span diag.Span, got float64) *Error {
	return &Error{Kind: KindInvalidIndex, Message: fmt.Sprintf("index %v is not a whole integer", got), Span: span}
}

func UnknownFunction(span diag.Span, name string) *Error {
	return &Error{Kind: KindUnknownFunction, Message: fmt.Sprintf("unknown function %q", name), Span: span, Name: name}
}

func UnknownOpcode(span diag.Span, op byte) *Error {
	return &Error{Kind: KindUnknownOpcode, Message: fmt.Sprintf("unknown opcode 0x%02X", op), Span: span}
}

func MalformedBytecode(span diag.Span, msg string) *Error {
	return &Error{Kind: KindMalformedBytecode, Message: msg, Span: span}
}

func StackUnderflow(span diag.Span) *Error {
	return &Error{Kind: KindStackUnderflow, Message: "operand stack underflow", Span: span}
}

func CircularImport(span diag.Span, path string) *Error {
	return &Error{Kind: KindCircularImport, Message: fmt.Sprintf("circular import of %q", path), Span: span, Name: path}
}

func IoError(span diag.Span, msg string) *Error {
	return &Error{Kind: KindIoError, Message: msg, Span: span}
}

// Code renders the diagnostic code a CLI driver quotes alongside a runtime
// error, for the handful of kinds §6.5's table also assigns a compile-time
// code to (e.g. scenario 6's "runtime error AT0005"). Kinds with no
// counterpart in the diagnostic code list render as the empty string.
func (k Kind) Code() diag.Code {
	switch k {
	case KindTypeError:
		return diag.CodeTypeMismatch
	case KindDivideByZero:
		return diag.CodeDivideByZero
	case KindOutOfBounds:
		return diag.CodeOutOfBounds
	case KindInvalidNumericResult:
		return diag.CodeInvalidNumericRes
	case KindInvalidIndex:
		return diag.CodeNonIntegerIndex
	case KindCircularImport:
		return diag.CodeCircularImport
	default:
		return ""
	}
}

// As reports whether err is an *Error and, if so, returns it.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
