package vm

import (
	"fmt"
	"math"

	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/value"
)

// binaryOp, arith, compare, mismatch, unaryNeg, unaryNot, and wholeIndex
// are the bytecode VM's copies of internal/interp's helpers (interp's
// single unaryOp is split here into unaryNeg and unaryNot).
// Both engines must raise the identical internal/rterr error for the same
// program (§8.1 "engine parity"); duplicating the handful of lines here
// keeps internal/vm from importing internal/interp (and vice versa) while
// the wording stays byte-identical because both call the same rterr
// constructors with the same arguments.
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

func unaryNeg(span diag.Span, v value.Value) (value.Value, error) {
	if v.Kind() != value.KindNumber {
		return value.Value{}, rterr.TypeError(span, "unary - requires a number, found "+v.TypeName())
	}
	return value.Number(-v.AsNumber()), nil
}

func unaryNot(span diag.Span, v value.Value) (value.Value, error) {
	if v.Kind() != value.KindBool {
		return value.Value{}, rterr.TypeError(span, "unary ! requires a bool, found "+v.TypeName())
	}
	return value.Bool(!v.AsBool()), nil
}

// wholeIndex enforces §4.2's "runtime enforces whole-integer value" rule.
func wholeIndex(span diag.Span, v value.Value) (int, error) {
	n := v.AsNumber()
	if n != float64(int(n)) {
		return 0, rterr.InvalidIndex(span, n)
	}
	return int(n), nil
}
