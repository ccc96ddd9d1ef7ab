// Package value implements the runtime Value model of §3: a closed sum
// type with value semantics by default, copy-on-write aggregates, and the
// Shared[T] opt-in to reference semantics.
package value

import "fmt"

// Kind is the closed variant tag of §3.1. The variant set is closed by
// design: adding a case here means updating every switch in this package,
// internal/dispatch, internal/interp and internal/vm — there is
// deliberately no default "extension" variant.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindNull
	KindString
	KindArray
	KindHashMap
	KindHashSet
	KindQueue
	KindStack
	KindFunction
	KindBuiltin
	KindNativeFunction
	KindShared
	KindJson
	KindFuture
	KindTaskHandle
	KindChannelSender
	KindChannelReceiver
	KindAsyncMutex
	KindDateTime
	KindRegex
	KindHttpRequest
	KindHttpResponse
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindNull:
		return "Null"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindHashMap:
		return "HashMap"
	case KindHashSet:
		return "HashSet"
	case KindQueue:
		return "Queue"
	case KindStack:
		return "Stack"
	case KindFunction:
		return "Function"
	case KindBuiltin:
		return "Builtin"
	case KindNativeFunction:
		return "NativeFunction"
	case KindShared:
		return "Shared"
	case KindJson:
		return "JsonValue"
	case KindFuture:
		return "Future"
	case KindTaskHandle:
		return "TaskHandle"
	case KindChannelSender:
		return "ChannelSender"
	case KindChannelReceiver:
		return "ChannelReceiver"
	case KindAsyncMutex:
		return "AsyncMutex"
	case KindDateTime:
		return "DateTime"
	case KindRegex:
		return "Regex"
	case KindHttpRequest:
		return "HttpRequest"
	case KindHttpResponse:
		return "HttpResponse"
	default:
		return "Unknown"
	}
}

// Value is the runtime representation described by §3.1. Exactly one of
// the payload fields is meaningful for a given Kind. Immediate variants
// (Number, Bool, Null) live directly in the struct so copying them is a
// bitwise copy; every aggregate or handle variant holds a pointer to
// refcounted storage so copying the struct is the O(1) "bump a refcount"
// operation the spec requires — callers must call Clone, not a bare Go
// assignment, when they want that bump to actually happen.
type Value struct {
	kind Kind

	num  float64
	bl   bool
	str  *stringStorage
	arr  *arrayStorage
	hmap *mapStorage
	hset *setStorage
	q    *queueStorage
	stk  *stackStorage
	fn   *FunctionValue
	bi   string
	nf   NativeFunction
	sh   *SharedStorage
	js   *JsonValue
	fut  *FutureHandle
	th   *TaskHandle
	cs   *ChannelSender
	cr   *ChannelReceiver
	am   *AsyncMutex
	dt   *DateTime
	rx   *Regex
	hreq *HttpRequest
	hres *HttpResponse
}

func (v Value) Kind() Kind { return v.kind }

// Null is the sole inhabitant of the null type.
var Null = Value{kind: KindNull}

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value      { return Value{kind: KindBool, bl: b} }

func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsBool() bool      { return v.bl }

func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNull() bool   { return v.kind == KindNull }

// NativeFunction is an opaque callable injected by the host (§3.1).
// Identity is by the underlying function pointer's address, which Go does
// not let us compare directly — callers needing identity compare the
// enclosing Value's nf field via reflect, done once in Equal.
type NativeFunction func(args []Value) (Value, error)

// Clone returns a Value that shares the same underlying storage as v
// (O(1)), bumping the storage's refcount for every aggregate or Shared
// variant. Immediate variants are simply copied. Every caller that
// duplicates a binding — assignment, argument passing, array element
// insertion — must call Clone rather than a bare struct copy, or the
// refcount book-keeping that CoW and Shared rely on goes out of sync.
func (v Value) Clone() Value {
	switch v.kind {
	case KindString:
		v.str.retain()
	case KindArray:
		v.arr.retain()
	case KindHashMap:
		v.hmap.retain()
	case KindHashSet:
		v.hset.retain()
	case KindQueue:
		v.q.retain()
	case KindStack:
		v.stk.retain()
	case KindShared:
		v.sh.retain()
	}
	return v
}

// Drop releases one alias of v's backing storage. It does not free Go
// memory (the GC does that once nothing references the storage) but it
// keeps the refcount accurate for IsExclusivelyOwned checks and for the
// "refcount conservation" testable property of §8.1.
func (v Value) Drop() {
	switch v.kind {
	case KindString:
		if v.str != nil {
			v.str.release()
		}
	case KindArray:
		if v.arr != nil && v.arr.release() == 0 {
			for _, e := range v.arr.elems {
				e.Drop()
			}
		}
	case KindHashMap:
		if v.hmap != nil && v.hmap.release() == 0 {
			for _, e := range v.hmap.entries {
				e.Drop()
			}
		}
	case KindHashSet:
		if v.hset != nil && v.hset.release() == 0 {
			for _, e := range v.hset.elems {
				e.Drop()
			}
		}
	case KindQueue:
		if v.q != nil && v.q.release() == 0 {
			for _, e := range v.q.elems {
				e.Drop()
			}
		}
	case KindStack:
		if v.stk != nil && v.stk.release() == 0 {
			for _, e := range v.stk.elems {
				e.Drop()
			}
		}
	case KindShared:
		if v.sh != nil {
			v.sh.release()
		}
	}
}

// TypeName renders the variant name the way diagnostics and stdlib error
// messages quote it (§4.9 "identifies the function, the expected type ...
// and what was received").
func (v Value) TypeName() string { return v.kind.String() }

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.bl)
	case KindNull:
		return "null"
	case KindString:
		return v.str.data
	case KindArray:
		return v.arr.String()
	case KindHashMap:
		return v.hmap.String()
	case KindHashSet:
		return v.hset.String()
	case KindQueue:
		return v.q.String()
	case KindStack:
		return v.stk.String()
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.fn.Name)
	case KindBuiltin:
		return fmt.Sprintf("<builtin %s>", v.bi)
	case KindNativeFunction:
		return "<native function>"
	case KindShared:
		return fmt.Sprintf("Shared(%s)", v.sh.Get())
	case KindJson:
		return v.js.String()
	case KindRegex:
		return fmt.Sprintf("/%s/", v.rx.Pattern)
	case KindDateTime:
		return v.dt.T.Format("2006-01-02T15:04:05Z07:00")
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}
