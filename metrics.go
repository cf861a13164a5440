package memtrack

import "fmt"

// TotalAllocated returns the number of bytes ever requested through the
// tracker. Monotonically non-decreasing.
func (t *Tracker) TotalAllocated() uint64 {
	return t.allocated.Load()
}

// TotalFreed returns the number of bytes ever released through the tracker.
// Monotonically non-decreasing.
func (t *Tracker) TotalFreed() uint64 {
	return t.freed.Load()
}

// CurrentUsage returns the number of bytes currently live, i.e.
// TotalAllocated minus TotalFreed.
func (t *Tracker) CurrentUsage() uint64 {
	// Load order matters: freed first. allocated is monotonic, so a later
	// load of it cannot be smaller than the freed total we already read.
	// The reverse order could observe a concurrent allocate+free pair in
	// freed but not in allocated.
	freed := t.freed.Load()
	alloc := t.allocated.Load()
	if freed > alloc {
		panic(fmt.Sprintf("memtrack: freed total %d exceeds allocated total %d", freed, alloc))
	}
	return alloc - freed
}

// Limit returns the configured usage cap in bytes, 0 meaning unlimited.
func (t *Tracker) Limit() uint64 {
	return t.limit
}

// Metrics returns a point-in-time snapshot of tracker statistics.
func (t *Tracker) Metrics() Metrics {
	freed := t.freed.Load()
	alloc := t.allocated.Load()
	return Metrics{
		TotalAllocated: alloc,
		TotalFreed:     freed,
		CurrentUsage:   alloc - freed,
		Limit:          t.limit,
	}
}

// Metrics contains statistical information about a tracker.
type Metrics struct {
	TotalAllocated uint64 // Bytes ever requested
	TotalFreed     uint64 // Bytes ever released
	CurrentUsage   uint64 // Bytes currently live
	Limit          uint64 // Usage cap, 0 = unlimited
}
