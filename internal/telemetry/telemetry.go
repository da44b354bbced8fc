// Package telemetry holds the process-wide atomic counters: total
// processed shots, queue depth, and latency sum/max/min, plus the
// system_ready publication flag that gates worker startup. Every counter
// here uses relaxed, independently-updated atomics — a Snapshot is
// consistent per field, never collectively atomic across fields, which
// is the intended best-effort telemetry contract, not a bug.
package telemetry

import "sync/atomic"

// Counters is the shared, lock-free telemetry block. The zero value is
// ready to use.
type Counters struct {
	systemReady atomic.Bool

	totalProcessed atomic.Uint64
	queueDepth     atomic.Int64

	latencySum atomic.Uint64
	latencyMax atomic.Uint64
	latencyMin atomic.Uint64
}

// SetSystemReady performs the release-store that publishes the decoding
// graph: workers must only read the graph after observing this flag
// true, via the startup barrier SystemReady implements.
func (c *Counters) SetSystemReady() {
	c.systemReady.Store(true)
}

// SystemReady performs the acquire-load side of the startup barrier.
func (c *Counters) SystemReady() bool {
	return c.systemReady.Load()
}

// IncQueueDepth and DecQueueDepth track the producer/consumer side of the
// SPMC queue's occupancy.
func (c *Counters) IncQueueDepth() { c.queueDepth.Add(1) }
func (c *Counters) DecQueueDepth() { c.queueDepth.Add(-1) }

// QueueDepth is a relaxed read of the current queue occupancy estimate.
func (c *Counters) QueueDepth() int64 { return c.queueDepth.Load() }

// RecordLatency folds one observed (now - packet.timestamp) sample into
// total_processed, latency_sum, latency_max and latency_min, as the
// worker loop does on every successful solve.
func (c *Counters) RecordLatency(latency uint64) {
	c.totalProcessed.Add(1)
	c.latencySum.Add(latency)
	fetchMax(&c.latencyMax, latency)
	fetchMin(&c.latencyMin, latency)
}

// fetchMax atomically sets *a to max(*a, v) via a compare-and-swap retry
// loop — Go's sync/atomic has no native fetch-max primitive.
func fetchMax(a *atomic.Uint64, v uint64) {
	for {
		cur := a.Load()
		if v <= cur {
			return
		}
		if a.CompareAndSwap(cur, v) {
			return
		}
	}
}

// fetchMin atomically sets *a to min(*a, v), treating an unset (zero)
// value as "no observation yet" so the first sample always wins — same
// convention a freshly zeroed latency_min needs to avoid pinning at 0.
func fetchMin(a *atomic.Uint64, v uint64) {
	for {
		cur := a.Load()
		if cur != 0 && v >= cur {
			return
		}
		if a.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Snapshot is a point-in-time, field-by-field read of the counters,
// taken with read-with-swap semantics on the latency accumulators: each
// read resets its field to zero so the next telemetry period starts
// clean.
type Snapshot struct {
	TotalProcessed uint64
	QueueDepth     int64
	LatencySum     uint64
	LatencyMax     uint64
	LatencyMin     uint64
}

// Snapshot reads and swap-resets the latency accumulators, and does a
// plain relaxed read of total_processed and queue_depth: those two are
// not swap-reset — they are running totals/gauges, not per-period
// accumulators.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		TotalProcessed: c.totalProcessed.Load(),
		QueueDepth:     c.queueDepth.Load(),
		LatencySum:     c.latencySum.Swap(0),
		LatencyMax:     c.latencyMax.Swap(0),
		LatencyMin:     c.latencyMin.Swap(0),
	}
}
