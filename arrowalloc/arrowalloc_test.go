package arrowalloc

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavanmanishd/memtrack"
)

func TestWrapDelegatesAndBalances(t *testing.T) {
	checked := memory.NewCheckedAllocator(memory.NewGoAllocator())
	tracker := memtrack.New(memtrack.Config{Underlying: Wrap(checked)})

	buf, err := tracker.Allocate(256)
	require.NoError(t, err)
	require.Len(t, buf, 256)
	assert.EqualValues(t, 256, tracker.TotalAllocated())

	tracker.Deallocate(buf, 256)
	assert.EqualValues(t, 256, tracker.TotalFreed())
	assert.EqualValues(t, 0, tracker.CurrentUsage())

	// Every byte the tracker took from Arrow went back.
	checked.AssertSize(t, 0)
}

func TestInstrumentCountsArrowTraffic(t *testing.T) {
	tracker := memtrack.New(memtrack.Config{})
	alloc := Instrument(tracker)

	buf := alloc.Allocate(512)
	require.Len(t, buf, 512)
	assert.EqualValues(t, 512, tracker.CurrentUsage())

	alloc.Free(buf)
	assert.EqualValues(t, 0, tracker.CurrentUsage())
}

func TestInstrumentReallocate(t *testing.T) {
	tracker := memtrack.New(memtrack.Config{})
	alloc := Instrument(tracker)

	buf := alloc.Allocate(64)
	copy(buf, "payload")

	grown := alloc.Reallocate(128, buf)
	require.Len(t, grown, 128)
	assert.Equal(t, "payload", string(grown[:7]))
	assert.EqualValues(t, 128, tracker.CurrentUsage())
	assert.EqualValues(t, 64+128, tracker.TotalAllocated())

	same := alloc.Reallocate(128, grown)
	assert.EqualValues(t, 64+128, tracker.TotalAllocated(), "same-size reallocate must not allocate")

	alloc.Free(same)
	assert.EqualValues(t, 0, tracker.CurrentUsage())
}

func TestInstrumentZeroSize(t *testing.T) {
	tracker := memtrack.New(memtrack.Config{})
	alloc := Instrument(tracker)

	assert.Nil(t, alloc.Allocate(0))
	alloc.Free(nil)
	assert.EqualValues(t, 0, tracker.TotalAllocated())
}

func TestInstrumentPanicsOnTrackerFailure(t *testing.T) {
	tracker := memtrack.New(memtrack.Config{Limit: 16})
	alloc := Instrument(tracker)

	assert.Panics(t, func() { alloc.Allocate(64) })
	assert.EqualValues(t, 0, tracker.TotalAllocated())
}

func TestInstrumentBehindCheckedAllocator(t *testing.T) {
	tracker := memtrack.New(memtrack.Config{})
	checked := memory.NewCheckedAllocator(Instrument(tracker))

	buf := checked.Allocate(100)
	checked.Free(buf)

	checked.AssertSize(t, 0)
	assert.EqualValues(t, tracker.TotalAllocated(), tracker.TotalFreed())
}
