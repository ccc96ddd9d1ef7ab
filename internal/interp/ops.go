package interp

import (
	"fmt"
	"math"

	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/value"
)

// binaryOp evaluates a non-short-circuit binary operator over already
// computed operands, shared between BinaryOp evaluation and compound
// assignment. internal/vm keeps its own copy in internal/vm/ops.go; both
// call the same internal/rterr constructors, so the two engines raise the
// same errors (§4.5 "Parity with interpreter").
func binaryOp(span diag.Span, op string, l, r value.Value) (value.Value, error) {
	switch op {
	case "+":
		if l.Kind() == value.KindString && r.Kind() == value.KindString {
			return value.String(l.AsString() + r.AsString()), nil
		}
		return arith(span, op, l, r, func(a, b float64) float64 { return a + b })
	case "-":
		return arith(span, op, l, r, func(a, b float64) float64 { return a - b })
	case "*":
		return arith(span, op, l, r, func(a, b float64) float64 { return a * b })
	case "/":
		if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
			return mismatch(span, op, l, r)
		}
		if r.AsNumber() == 0 {
			return value.Value{}, rterr.DivideByZero(span)
		}
		return arith(span, op, l, r, func(a, b float64) float64 { return a / b })
	case "%":
		if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
			return mismatch(span, op, l, r)
		}
		if r.AsNumber() == 0 {
			return value.Value{}, rterr.DivideByZero(span)
		}
		return arith(span, op, l, r, math.Mod)
	case "<":
		return compare(span, op, l, r, func(a, b float64) bool { return a < b })
	case "<=":
		return compare(span, op, l, r, func(a, b float64) bool { return a <= b })
	case ">":
		return compare(span, op, l, r, func(a, b float64) bool { return a > b })
	case ">=":
		return compare(span, op, l, r, func(a, b float64) bool { return a >= b })
	case "==":
		return value.Bool(value.Equal(l, r)), nil
	case "!=":
		return value.Bool(!value.Equal(l, r)), nil
	default:
		return value.Value{}, rterr.TypeError(span, fmt.Sprintf("unknown operator %q", op))
	}
}

func arith(span diag.Span, op string, l, r value.Value, fn func(a, b float64) float64) (value.Value, error) {
	if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
		return mismatch(span, op, l, r)
	}
	res := fn(l.AsNumber(), r.AsNumber())
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return value.Value{}, rterr.InvalidNumericResult(span, op)
	}
	return value.Number(res), nil
}

func compare(span diag.Span, op string, l, r value.Value, fn func(a, b float64) bool) (value.Value, error) {
	if l.Kind() != value.KindNumber || r.Kind() != value.KindNumber {
		return mismatch(span, op, l, r)
	}
	return value.Bool(fn(l.AsNumber(), r.AsNumber())), nil
}

func mismatch(span diag.Span, op string, l, r value.Value) (value.Value, error) {
	return value.Value{}, rterr.TypeError(span, fmt.Sprintf("operator %q not defined for %s and %s", op, l.TypeName(), r.TypeName()))
}

// unaryOp evaluates "-" and "!" over an already computed operand.
func unaryOp(span diag.Span, op string, v value.Value) (value.Value, error) {
	switch op {
	case "-":
		if v.Kind() != value.KindNumber {
			return value.Value{}, rterr.TypeError(span, "unary - requires a number, found "+v.TypeName())
		}
		return value.Number(-v.AsNumber()), nil
	case "!":
		if v.Kind() != value.KindBool {
			return value.Value{}, rterr.TypeError(span, "unary ! requires a bool, found "+v.TypeName())
		}
		return value.Bool(!v.AsBool()), nil
	default:
		return value.Value{}, rterr.TypeError(span, fmt.Sprintf("unknown operator %q", op))
	}
}

// wholeIndex enforces §4.2's "runtime enforces whole-integer value" rule,
// identical to internal/dispatch's private helper of the same name and
// meaning.
func wholeIndex(span diag.Span, v value.Value) (int, error) {
	n := v.AsNumber()
	if n != float64(int(n)) {
		return 0, rterr.InvalidIndex(span, n)
	}
	return int(n), nil
}
