// Package arrowalloc bridges memtrack and Apache Arrow's memory.Allocator.
//
// The bridge runs both directions. Wrap lets a tracker delegate to an Arrow
// allocator, so bytes handed out by Arrow's mallocator or checked allocator
// are accounted. Instrument exposes a tracker as an Arrow allocator, so an
// Arrow pipeline's allocations route through accounting without the pipeline
// knowing.
package arrowalloc

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/pavanmanishd/memtrack"
)

// Wrap adapts an Arrow allocator to the memtrack Allocator interface so it
// can serve as a tracker's underlying allocator.
func Wrap(mem memory.Allocator) memtrack.Allocator {
	return wrapped{mem: mem}
}

type wrapped struct {
	mem memory.Allocator
}

func (w wrapped) Allocate(n int) ([]byte, error) { return w.mem.Allocate(n), nil }
func (w wrapped) Free(buf []byte)                { w.mem.Free(buf) }

// Instrument exposes a tracker as an Arrow memory.Allocator. Arrow treats
// allocation failure as fatal, so a tracker error (for example a budget
// limit) panics out of Allocate, matching Arrow allocator semantics.
//
// The returned allocator delegates to the tracker, never the other way
// around: do not configure it as the same tracker's underlying allocator.
func Instrument(tracker *memtrack.Tracker) memory.Allocator {
	return instrumented{t: tracker}
}

type instrumented struct {
	t *memtrack.Tracker
}

func (a instrumented) Allocate(size int) []byte {
	if size == 0 {
		return nil
	}
	buf, err := a.t.Allocate(size)
	if err != nil {
		panic(err)
	}
	return buf
}

func (a instrumented) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	next := a.Allocate(size)
	copy(next, b)
	a.Free(b)
	return next
}

func (a instrumented) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.t.Deallocate(b, len(b))
}
