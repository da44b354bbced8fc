package queue

import "sync/atomic"

// atomicU64 wraps atomic.Uint64 with load/store names that mirror the
// relaxed/acquire/release vocabulary used to describe the ring buffer's
// memory ordering. The Go memory model gives every atomic.Uint64 op
// sequential consistency, which is strictly stronger than a relaxed/
// acquire/release mix — so the named methods below are documentation of
// intent, not a weaker/stronger distinction Go can actually express.
type atomicU64 struct {
	v atomic.Uint64
}

func (a *atomicU64) load() uint64 {
	return a.v.Load()
}

func (a *atomicU64) loadAcquire() uint64 {
	return a.v.Load()
}

func (a *atomicU64) storeRelease(val uint64) {
	a.v.Store(val)
}

func (a *atomicU64) compareAndSwapAcquire(old, next uint64) bool {
	return a.v.CompareAndSwap(old, next)
}
