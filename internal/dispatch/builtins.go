package dispatch

import (
	"fmt"
	"strings"

	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/rterr"
	"github.com/atlas-lang/atlas/internal/security"
	"github.com/atlas-lang/atlas/internal/value"
)

// init registers the representative stdlib surface: the prelude
// (print, len, str) plus the backing functions for the method entries
// registered in methods.go. array_map, array_filter, array_sort, json_get
// and json_set have a method entry but no backing function registered
// here. Every entry here is a single call to
// Register, matching §4.9 "registering a new builtin is a single
// insertion".
func init() {
	Register("print", biPrint)
	Register("len", biLen)
	Register("str", biStr)

	Register("array_push", biArrayPush)
	Register("array_pop", biArrayPop)
	Register("array_set", biArraySet)
	Register("array_remove", biArrayRemove)
	Register("array_len", biArrayLen)
	Register("array_get", biArrayGet)

	Register("string_len", biStringLen)
	Register("string_to_upper", biStringToUpper)
	Register("string_to_lower", biStringToLower)
	Register("string_split", biStringSplit)

	Register("hashmap_get", biHashMapGet)
	Register("hashmap_set", biHashMapSet)
	Register("hashmap_remove", biHashMapRemove)
	Register("hashmap_len", biHashMapLen)
	Register("hashmap_keys", biHashMapKeys)

	Register("hashset_add", biHashSetAdd)
	Register("hashset_remove", biHashSetRemove)
	Register("hashset_contains", biHashSetContains)
	Register("hashset_len", biHashSetLen)

	Register("queue_enqueue", biQueueEnqueue)
	Register("queue_dequeue", biQueueDequeue)
	Register("queue_peek", biQueuePeek)
	Register("queue_len", biQueueLen)

	Register("stack_push", biStackPush)
	Register("stack_pop", biStackPop)
	Register("stack_peek", biStackPeek)
	Register("stack_len", biStackLen)

	Register("shared_get", biSharedGet)
	Register("shared_set", biSharedSet)

	Register("match_exhausted", biMatchExhausted)
}

// biMatchExhausted backs the defensive fallthrough internal/compiler emits
// after a match expression's last arm: a well-typed program's exhaustive
// match (enforced by AT0008) never reaches it, but both engines raise the
// identical error if one somehow does (§8.1 engine parity).
func biMatchExhausted(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	return value.Value{}, rterr.TypeError(span, "no match arm matched the subject value")
}

func arity(span diag.Span, fn string, args []value.Value, want int) error {
	if len(args) != want {
		return rterr.InvalidStdlibArgument(span, fn, fmt.Sprintf("expected %d argument(s), got %d", want, len(args)))
	}
	return nil
}

func biPrint(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	out.WriteString(strings.Join(parts, " "))
	out.WriteString("\n")
	return value.Null, nil
}

func biLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	switch args[0].Kind() {
	case value.KindString:
		return value.Number(float64(args[0].StringLen())), nil
	case value.KindArray:
		return value.Number(float64(args[0].ArrayLen())), nil
	case value.KindHashMap:
		return value.Number(float64(args[0].HashMapLen())), nil
	case value.KindHashSet:
		return value.Number(float64(args[0].HashSetLen())), nil
	case value.KindQueue:
		return value.Number(float64(args[0].QueueLen())), nil
	case value.KindStack:
		return value.Number(float64(args[0].StackLen())), nil
	default:
		return value.Value{}, rterr.InvalidStdlibArgument(span, "len", fmt.Sprintf("expected a collection or string, got %s", args[0].TypeName()))
	}
}

func biStr(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "str", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.String(args[0].String()), nil
}

func biArrayPush(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "push", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0].ArrayPush(args[1]), nil
}

func biArrayPop(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "pop", args, 1); err != nil {
		return value.Value{}, err
	}
	n := args[0].ArrayLen()
	if n == 0 {
		return value.Value{}, rterr.OutOfBounds(span, -1, 0)
	}
	_, next, _ := args[0].ArrayRemove(n - 1)
	return next, nil
}

func biArraySet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "set", args, 3); err != nil {
		return value.Value{}, err
	}
	idx, err := wholeIndex(span, args[1])
	if err != nil {
		return value.Value{}, err
	}
	next, ok := args[0].ArraySet(idx, args[2])
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, idx, args[0].ArrayLen())
	}
	return next, nil
}

func biArrayRemove(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "remove", args, 2); err != nil {
		return value.Value{}, err
	}
	idx, err := wholeIndex(span, args[1])
	if err != nil {
		return value.Value{}, err
	}
	_, next, ok := args[0].ArrayRemove(idx)
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, idx, args[0].ArrayLen())
	}
	return next, nil
}

func biArrayLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].ArrayLen())), nil
}

func biArrayGet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "get", args, 2); err != nil {
		return value.Value{}, err
	}
	idx, err := wholeIndex(span, args[1])
	if err != nil {
		return value.Value{}, err
	}
	v, ok := args[0].ArrayGet(idx)
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, idx, args[0].ArrayLen())
	}
	return v, nil
}

func biStringLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].StringLen())), nil
}

func biStringToUpper(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "toUpper", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToUpper(args[0].AsString())), nil
}

func biStringToLower(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "toLower", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.String(strings.ToLower(args[0].AsString())), nil
}

func biStringSplit(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "split", args, 2); err != nil {
		return value.Value{}, err
	}
	parts := strings.Split(args[0].AsString(), args[1].AsString())
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.String(p)
	}
	return value.Array(elems...), nil
}

func biHashMapGet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "get", args, 2); err != nil {
		return value.Value{}, err
	}
	v, ok := args[0].HashMapGet(args[1])
	if !ok {
		return value.Null, nil
	}
	return v, nil
}

func biHashMapSet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "set", args, 3); err != nil {
		return value.Value{}, err
	}
	return args[0].HashMapSet(args[1], args[2]), nil
}

func biHashMapRemove(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "remove", args, 2); err != nil {
		return value.Value{}, err
	}
	next, _ := args[0].HashMapRemove(args[1])
	return next, nil
}

func biHashMapLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].HashMapLen())), nil
}

func biHashMapKeys(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "keys", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Array(args[0].HashMapKeys()...), nil
}

func biHashSetAdd(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "add", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0].HashSetAdd(args[1]), nil
}

func biHashSetRemove(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "remove", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0].HashSetRemove(args[1]), nil
}

func biHashSetContains(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "contains", args, 2); err != nil {
		return value.Value{}, err
	}
	return value.Bool(args[0].HashSetContains(args[1])), nil
}

func biHashSetLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].HashSetLen())), nil
}

func biQueueEnqueue(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "enqueue", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0].QueueEnqueue(args[1]), nil
}

func biQueueDequeue(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "dequeue", args, 1); err != nil {
		return value.Value{}, err
	}
	_, next, ok := args[0].QueueDequeue()
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, 0, 0)
	}
	return next, nil
}

func biQueuePeek(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "peek", args, 1); err != nil {
		return value.Value{}, err
	}
	v, ok := args[0].QueuePeek()
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, 0, 0)
	}
	return v, nil
}

func biQueueLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].QueueLen())), nil
}

func biStackPush(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "push", args, 2); err != nil {
		return value.Value{}, err
	}
	return args[0].StackPush(args[1]), nil
}

func biStackPop(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "pop", args, 1); err != nil {
		return value.Value{}, err
	}
	_, next, ok := args[0].StackPop()
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, 0, 0)
	}
	return next, nil
}

func biStackPeek(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "peek", args, 1); err != nil {
		return value.Value{}, err
	}
	v, ok := args[0].StackPeek()
	if !ok {
		return value.Value{}, rterr.OutOfBounds(span, 0, 0)
	}
	return v, nil
}

func biStackLen(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "len", args, 1); err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(args[0].StackLen())), nil
}

func biSharedGet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "get", args, 1); err != nil {
		return value.Value{}, err
	}
	return args[0].SharedGet(), nil
}

func biSharedSet(args []value.Value, span diag.Span, sec *security.Context, out Output) (value.Value, error) {
	if err := arity(span, "set", args, 2); err != nil {
		return value.Value{}, err
	}
	args[0].SharedSet(args[1])
	return value.Null, nil
}

// wholeIndex enforces §4.2's "runtime enforces whole-integer value" rule
// for array indexing, producing InvalidIndex (not TypeError) when the
// Number carries a fractional part.
func wholeIndex(span diag.Span, v value.Value) (int, error) {
	n := v.AsNumber()
	if n != float64(int(n)) {
		return 0, rterr.InvalidIndex(span, n)
	}
	return int(n), nil
}
