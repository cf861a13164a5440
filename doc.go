// Package memtrack implements process-wide heap allocation accounting for Go.
//
// # Overview
//
// A Tracker sits between call sites and an underlying allocator and keeps a
// running total of every byte allocated and freed through it. This is
// particularly useful for:
//
//   - Watching live heap usage of a subsystem without a profiler
//   - Catching leaks in tests (usage must return to its baseline)
//   - Measuring the allocation cost of a region of code
//   - Enforcing a byte budget on a component
//
// # Basic Usage
//
//	tracker := memtrack.New(memtrack.Config{})
//
//	buf, err := tracker.Allocate(1024)
//	if err != nil {
//		// underlying allocator refused the request; counters untouched
//	}
//	defer tracker.Deallocate(buf, 1024)
//
//	fmt.Println(tracker.CurrentUsage()) // 1024
//
// # Owning Handles
//
// A Handle wraps exactly one heap object allocated through a tracker and
// frees it exactly once, however many times ownership moves:
//
//	h, _ := memtrack.NewHandleOf(tracker, Point{1, 2, 3})
//	defer h.Release()
//
//	h2 := h.Move() // h is now empty; h2 owns the object
//	defer h2.Release()
//
// # Scoped Snapshots
//
// A Snapshot measures wall-clock time and allocation deltas over a region:
//
//	snap := tracker.StartSnapshot(nil) // nil sink prints "Timer took N ms"
//	defer snap.Stop()
//
// # Thread Safety
//
// All Tracker operations are safe for concurrent use. The counters are
// lock-free atomics, so the allocation path never takes a mutex. Snapshots
// read the shared counters: a snapshot's delta includes allocations made by
// unrelated goroutines during its window. Handles are not synchronized;
// exactly one goroutine owns a handle at a time, which is the point.
//
// # Process-Wide Instance
//
// Hosts that want a single shared tracker call Initialize once at startup and
// Shutdown once at exit:
//
//	memtrack.Initialize(memtrack.Config{})
//	defer memtrack.Shutdown()
//
//	tr := memtrack.Global()
//
// # Metrics and Monitoring
//
// The tracker exposes a metrics snapshot for monitoring:
//
//	m := tracker.Metrics()
//	fmt.Printf("In use: %d bytes\n", m.CurrentUsage)
//	fmt.Printf("Ever allocated: %d bytes\n", m.TotalAllocated)
//
// The export/prometheus and export/otel subpackages publish the same numbers
// to Prometheus scrapes and OpenTelemetry meters.
package memtrack
