package value

import "sync"

// SharedStorage backs the Shared variant: explicit reference semantics
// with internal locking (§3.1, §4.6). It is the inverse of every other
// aggregate's contract — cloning never duplicates storage, and mutation
// is always in place under the lock, visible to every holder.
type SharedStorage struct {
	refcounted
	mu   sync.Mutex
	held Value
}

// NewShared wraps x in a fresh Shared handle with refcount 1.
func NewShared(x Value) Value {
	return Value{kind: KindShared, sh: &SharedStorage{refcounted: newRefcounted(), held: x}}
}

// SharedGet returns a clone of the currently held value.
func (v Value) SharedGet() Value {
	v.sh.mu.Lock()
	defer v.sh.mu.Unlock()
	return v.sh.held.Clone()
}

// Get is the SharedStorage-level accessor used by Value.String, which
// already holds no alias obligations of its own.
func (s *SharedStorage) Get() Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// SharedSet replaces the held value under the lock. Every clone of this
// Shared handle observes the new value on its next Get, per §3.1's
// reference-semantics contract.
func (v Value) SharedSet(x Value) {
	v.sh.mu.Lock()
	defer v.sh.mu.Unlock()
	old := v.sh.held
	v.sh.held = x
	old.Drop()
}

// sameHandleIdentity reports whether a and b refer to the very same
// storage allocation, the identity-equality rule §3.1.1 specifies for
// NativeFunction and the async-runtime handles.
func sameHandleIdentity(a, b Value) bool {
	switch a.kind {
	case KindNativeFunction:
		return sameFuncIdentity(a.nf, b.nf)
	case KindFuture:
		return a.fut == b.fut
	case KindTaskHandle:
		return a.th == b.th
	case KindChannelSender:
		return a.cs == b.cs
	case KindChannelReceiver:
		return a.cr == b.cr
	case KindAsyncMutex:
		return a.am == b.am
	default:
		return false
	}
}
