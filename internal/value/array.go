package value

import (
	"fmt"
	"strings"
)

// arrayStorage backs the Array variant: a CoW sequence of Value (§3.1).
type arrayStorage struct {
	refcounted
	elems []Value
}

func (s *arrayStorage) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Array constructs a fresh Array value with refcount 1, taking ownership
// of elems (callers that still need their own copy must Clone each
// element first).
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: &arrayStorage{refcounted: newRefcounted(), elems: elems}}
}

// ArrayLen returns the number of elements. Reads never trigger CoW.
func (v Value) ArrayLen() int { return len(v.arr.elems) }

// ArrayGet returns a clone of the element at i (bumping its refcount if
// it is itself an aggregate), or a RuntimeError-shaped ok=false if i is
// out of [0, len).
func (v Value) ArrayGet(i int) (Value, bool) {
	if i < 0 || i >= len(v.arr.elems) {
		return Value{}, false
	}
	return v.arr.elems[i].Clone(), true
}

// ArrayIsExclusivelyOwned reports whether v is the sole alias of its
// backing storage (§4.6 "an owner-check").
func (v Value) ArrayIsExclusivelyOwned() bool { return v.arr.exclusivelyOwned() }

// arrayMut returns a storage pointer v may mutate in place: v.arr itself
// if v is the sole owner, otherwise a fresh copy with its own refcount of
// 1 (the CoW path of §4.6). The caller's old alias (if any) is left
// pointing at the original storage, which is exactly the isolation
// guarantee §8.1 "CoW isolation" requires.
func (v Value) arrayMut() *arrayStorage {
	if v.arr.exclusivelyOwned() {
		return v.arr
	}
	cloned := make([]Value, len(v.arr.elems))
	for i, e := range v.arr.elems {
		cloned[i] = e.Clone()
	}
	v.arr.release()
	return &arrayStorage{refcounted: newRefcounted(), elems: cloned}
}

// ArrayPush appends x, triggering CoW if v is aliased, and returns the
// (possibly reallocated) array. Callers must rebind their variable to the
// returned Value (§4.4 "Mutation and CoW").
func (v Value) ArrayPush(x Value) Value {
	s := v.arrayMut()
	s.elems = append(s.elems, x)
	return Value{kind: KindArray, arr: s}
}

// ArraySet replaces the element at i, triggering CoW if aliased. ok is
// false and v is returned unchanged if i is out of bounds.
func (v Value) ArraySet(i int, x Value) (Value, bool) {
	if i < 0 || i >= len(v.arr.elems) {
		return v, false
	}
	s := v.arrayMut()
	s.elems[i].Drop()
	s.elems[i] = x
	return Value{kind: KindArray, arr: s}, true
}

// ArrayRemove removes and returns the element at i along with the
// resulting array, triggering CoW if aliased.
func (v Value) ArrayRemove(i int) (Value, Value, bool) {
	if i < 0 || i >= len(v.arr.elems) {
		return Value{}, v, false
	}
	s := v.arrayMut()
	removed := s.elems[i]
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	return removed, Value{kind: KindArray, arr: s}, true
}

// arrayEqual is content equality: same length, pairwise-equal elements.
func arrayEqual(a, b *arrayStorage) bool {
	if a == b {
		return true
	}
	if len(a.elems) != len(b.elems) {
		return false
	}
	for i := range a.elems {
		if !Equal(a.elems[i], b.elems[i]) {
			return false
		}
	}
	return true
}

// Equal implements §3.1.1's equality rules: content equality for every
// variant except Shared, NativeFunction, and the async-runtime handles
// (identity), with Regex compared by pattern text.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNumber:
		return a.num == b.num
	case KindBool:
		return a.bl == b.bl
	case KindNull:
		return true
	case KindString:
		return a.str.data == b.str.data
	case KindArray:
		return arrayEqual(a.arr, b.arr)
	case KindHashMap:
		return mapEqual(a.hmap, b.hmap)
	case KindHashSet:
		return setEqual(a.hset, b.hset)
	case KindQueue:
		return queueEqual(a.q, b.q)
	case KindStack:
		return stackEqual(a.stk, b.stk)
	case KindFunction:
		return a.fn == b.fn
	case KindBuiltin:
		return a.bi == b.bi
	case KindNativeFunction, KindFuture, KindTaskHandle, KindChannelSender,
		KindChannelReceiver, KindAsyncMutex:
		return sameHandleIdentity(a, b)
	case KindShared:
		return a.sh == b.sh
	case KindJson:
		return a.js.Equal(b.js)
	case KindRegex:
		return a.rx.Pattern == b.rx.Pattern
	case KindDateTime:
		return a.dt.T.Equal(b.dt.T)
	case KindHttpRequest:
		return fmt.Sprintf("%v", a.hreq) == fmt.Sprintf("%v", b.hreq)
	case KindHttpResponse:
		return fmt.Sprintf("%v", a.hres) == fmt.Sprintf("%v", b.hres)
	default:
		return false
	}
}
