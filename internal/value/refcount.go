package value

import "sync/atomic"

// refcounted is embedded by every aggregate's backing storage. It tracks
// how many Values currently share the same allocation, which is exactly
// the information CoW mutation needs to decide whether to mutate in place
// or clone first (§4.6). It does not participate in Go's own garbage
// collection — the GC still reclaims the storage when nothing references
// it — it exists purely to answer "am I the sole owner?".
type refcounted struct {
	n int32
}

func newRefcounted() refcounted { return refcounted{n: 1} }

// retain records a new alias to the storage. Every Clone of an aggregate
// Value must call this exactly once.
func (r *refcounted) retain() { atomic.AddInt32(&r.n, 1) }

// release records that one alias has gone away and returns the remaining
// count. Every drop of an aggregate Value calls this exactly once.
func (r *refcounted) release() int32 { return atomic.AddInt32(&r.n, -1) }

// count returns the current number of aliases.
func (r *refcounted) count() int32 { return atomic.LoadInt32(&r.n) }

// exclusivelyOwned reports whether the caller holds the only alias, i.e.
// whether a mutation may proceed in place without cloning.
func (r *refcounted) exclusivelyOwned() bool { return r.count() == 1 }
