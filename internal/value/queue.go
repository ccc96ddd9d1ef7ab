package value

import "strings"

// queueStorage backs the Queue variant: a CoW FIFO sequence (§3.1).
type queueStorage struct {
	refcounted
	elems []Value
}

func (s *queueStorage) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	return "Queue[" + strings.Join(parts, ", ") + "]"
}

func Queue(elems ...Value) Value {
	return Value{kind: KindQueue, q: &queueStorage{refcounted: newRefcounted(), elems: elems}}
}

func (v Value) QueueLen() int { return len(v.q.elems) }

func (v Value) QueueIsExclusivelyOwned() bool { return v.q.exclusivelyOwned() }

func (v Value) queueMut() *queueStorage {
	if v.q.exclusivelyOwned() {
		return v.q
	}
	cloned := make([]Value, len(v.q.elems))
	for i, e := range v.q.elems {
		cloned[i] = e.Clone()
	}
	v.q.release()
	return &queueStorage{refcounted: newRefcounted(), elems: cloned}
}

// QueueEnqueue appends to the back, triggering CoW if aliased.
func (v Value) QueueEnqueue(x Value) Value {
	s := v.queueMut()
	s.elems = append(s.elems, x)
	return Value{kind: KindQueue, q: s}
}

// QueueDequeue removes and returns the front element, triggering CoW if
// aliased. ok is false if the queue is empty.
func (v Value) QueueDequeue() (Value, Value, bool) {
	if len(v.q.elems) == 0 {
		return Value{}, v, false
	}
	s := v.queueMut()
	front := s.elems[0]
	s.elems = s.elems[1:]
	return front, Value{kind: KindQueue, q: s}, true
}

func (v Value) QueuePeek() (Value, bool) {
	if len(v.q.elems) == 0 {
		return Value{}, false
	}
	return v.q.elems[0].Clone(), true
}

func queueEqual(a, b *queueStorage) bool {
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

// stackStorage backs the Stack variant: a CoW LIFO sequence (§3.1).
type stackStorage struct {
	refcounted
	elems []Value
}

func (s *stackStorage) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	return "Stack[" + strings.Join(parts, ", ") + "]"
}

func Stack(elems ...Value) Value {
	return Value{kind: KindStack, stk: &stackStorage{refcounted: newRefcounted(), elems: elems}}
}

func (v Value) StackLen() int { return len(v.stk.elems) }

func (v Value) StackIsExclusivelyOwned() bool { return v.stk.exclusivelyOwned() }

func (v Value) stackMut() *stackStorage {
	if v.stk.exclusivelyOwned() {
		return v.stk
	}
	cloned := make([]Value, len(v.stk.elems))
	for i, e := range v.stk.elems {
		cloned[i] = e.Clone()
	}
	v.stk.release()
	return &stackStorage{refcounted: newRefcounted(), elems: cloned}
}

// StackPush pushes to the top, triggering CoW if aliased.
func (v Value) StackPush(x Value) Value {
	s := v.stackMut()
	s.elems = append(s.elems, x)
	return Value{kind: KindStack, stk: s}
}

// StackPop removes and returns the top element, triggering CoW if
// aliased. ok is false if the stack is empty.
func (v Value) StackPop() (Value, Value, bool) {
	n := len(v.stk.elems)
	if n == 0 {
		return Value{}, v, false
	}
	s := v.stackMut()
	top := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return top, Value{kind: KindStack, stk: s}, true
}

func (v Value) StackPeek() (Value, bool) {
	n := len(v.stk.elems)
	if n == 0 {
		return Value{}, false
	}
	return v.stk.elems[n-1].Clone(), true
}

func stackEqual(a, b *stackStorage) bool {
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
