// Package atomic_stats provides the small shared counters that many workers
// bump without coordination: birth/death tallies and the autotracking
// accumulators. These feed the status line and view steering only, so they
// need eventual consistency, not linearized totals; plain atomic adds keep
// them race-detector-clean without putting a lock on the hot path.
package atomic_stats

import "sync/atomic"

// Counter is an advisory shared counter. The zero value is ready to use.
type Counter struct {
	val int64
}

// Add atomically adds delta and returns the new value.
func (c *Counter) Add(delta int64) int64 {
	return atomic.AddInt64(&c.val, delta)
}

// Read atomically loads the current value.
func (c *Counter) Read() int64 {
	return atomic.LoadInt64(&c.val)
}

// Set atomically stores v.
func (c *Counter) Set(v int64) {
	atomic.StoreInt64(&c.val, v)
}

// Swap atomically stores v and returns the previous value. The main thread
// uses this to harvest-and-reset the per-generation accumulators.
func (c *Counter) Swap(v int64) int64 {
	return atomic.SwapInt64(&c.val, v)
}
