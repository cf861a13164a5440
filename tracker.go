package memtrack

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/atomic"
)

var (
	// ErrInvalidSize is returned by Allocate for non-positive sizes.
	ErrInvalidSize = errors.New("memtrack: allocation size must be positive")

	// ErrLimitExceeded is returned by Allocate when the request would push
	// current usage past the configured limit.
	ErrLimitExceeded = errors.New("memtrack: allocation limit exceeded")
)

// Allocator is the underlying allocator a Tracker delegates to.
// Implementations must return a slice of exactly n bytes or an error, and
// must never call back into the tracker that wraps them.
type Allocator interface {
	Allocate(n int) ([]byte, error)
	Free(buf []byte)
}

// goAllocator allocates from the Go runtime heap. Free is a no-op; the
// garbage collector reclaims the block once the last reference drops.
type goAllocator struct{}

func (goAllocator) Allocate(n int) ([]byte, error) { return make([]byte, n), nil }
func (goAllocator) Free([]byte)                    {}

// Config configures a Tracker.
type Config struct {
	// Underlying is the allocator requests are delegated to.
	// Defaults to the Go runtime heap.
	Underlying Allocator

	// Limit caps CurrentUsage in bytes. 0 means unlimited. The check is
	// advisory under concurrency: two racing allocations near the limit may
	// both pass, but totals are never lost.
	Limit uint64

	// Clock supplies time for snapshots. Defaults to the wall clock.
	Clock clock.Clock
}

// Tracker intercepts allocation and deallocation requests, maintains running
// byte totals, and delegates the actual work to an underlying allocator.
//
// The bookkeeping is a fixed pair of atomic counters. The hook never
// allocates and never locks, so it cannot recursively invoke itself no
// matter what the caller is doing. A Tracker is itself an Allocator, so
// trackers can be layered for per-component accounting.
type Tracker struct {
	underlying Allocator
	limit      uint64
	clk        clock.Clock

	allocated atomic.Uint64
	freed     atomic.Uint64
}

var _ Allocator = (*Tracker)(nil)

// New creates a Tracker from cfg, applying defaults for zero fields.
func New(cfg Config) *Tracker {
	if cfg.Underlying == nil {
		cfg.Underlying = goAllocator{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Tracker{
		underlying: cfg.Underlying,
		limit:      cfg.Limit,
		clk:        cfg.Clock,
	}
}

// Allocate requests size bytes from the underlying allocator and, only after
// the underlying allocation succeeds, adds size to the allocated total. A
// failed request leaves the counters untouched and returns the wrapped
// underlying error.
func (t *Tracker) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if t.limit > 0 && t.CurrentUsage()+uint64(size) > t.limit {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrLimitExceeded, size, t.CurrentUsage(), t.limit)
	}

	buf, err := t.underlying.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("memtrack: allocate %d bytes: %w", size, err)
	}
	if len(buf) != size {
		panic(fmt.Sprintf("memtrack: underlying allocator returned %d bytes, want %d", len(buf), size))
	}

	t.allocated.Add(uint64(size))
	return buf, nil
}

// Deallocate adds size to the freed total and releases buf via the
// underlying allocator. The caller supplies the original allocation size;
// a size that does not match the block is a bookkeeping bug and panics.
// buf must have been obtained from Allocate on this tracker.
func (t *Tracker) Deallocate(buf []byte, size int) {
	if buf == nil {
		panic("memtrack: deallocate of nil buffer")
	}
	if size != len(buf) {
		panic(fmt.Sprintf("memtrack: deallocate size %d does not match allocation size %d", size, len(buf)))
	}

	freed := t.freed.Add(uint64(size))
	// allocated is monotonic and every freed byte was counted there first,
	// so loading it after the add can only see a value >= freed.
	if alloc := t.allocated.Load(); freed > alloc {
		panic(fmt.Sprintf("memtrack: freed total %d exceeds allocated total %d", freed, alloc))
	}

	t.underlying.Free(buf)
}

// Free makes Tracker satisfy Allocator so trackers can be layered.
// It is Deallocate with the size taken from the slice.
func (t *Tracker) Free(buf []byte) {
	if buf == nil {
		return
	}
	t.Deallocate(buf, len(buf))
}
