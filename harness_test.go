package memtrack

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/atomic"
)

func TestHarnessRunsAllTasks(t *testing.T) {
	var sum atomic.Int64
	var calls atomic.Int64

	h := NewHarness(
		Task{Fn: func(n int) { sum.Add(int64(n)); calls.Inc() }, Arg: 42},
		Task{Fn: func(n int) { sum.Add(int64(n)); calls.Inc() }, Arg: 25},
	)
	h.Go(func(n int) { sum.Add(int64(n)); calls.Inc() }, 33)
	h.Run()

	if calls.Load() != 3 {
		t.Errorf("tasks run = %d, want 3", calls.Load())
	}
	if sum.Load() != 100 {
		t.Errorf("argument sum = %d, want 100", sum.Load())
	}
}

func TestHarnessJoinsBeforeReturn(t *testing.T) {
	var done atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	h := NewHarness(Task{Fn: func(int) {
		wg.Wait() // hold the worker until the main goroutine lets go
		done.Store(true)
	}, Arg: 0})

	go wg.Done()
	h.Run()

	if !done.Load() {
		t.Error("Run returned before worker completed")
	}
}

func TestSyncWriterNoInterleaving(t *testing.T) {
	const workers = 8
	const lines = 200

	var buf bytes.Buffer
	w := NewSyncWriter(&buf)

	h := NewHarness()
	for i := 0; i < workers; i++ {
		h.Go(func(id int) {
			for j := 0; j < lines; j++ {
				w.Printf("worker %d line %d\n", id, j)
			}
		}, i)
	}
	h.Run()

	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != workers*lines {
		t.Fatalf("output lines = %d, want %d", len(got), workers*lines)
	}

	seen := make(map[string]bool, len(got))
	for _, line := range got {
		var id, n int
		if _, err := fmt.Sscanf(line, "worker %d line %d", &id, &n); err != nil {
			t.Fatalf("malformed (interleaved?) line %q: %v", line, err)
		}
		if id < 0 || id >= workers || n < 0 || n >= lines {
			t.Fatalf("line %q out of range", line)
		}
		if seen[line] {
			t.Fatalf("duplicate line %q", line)
		}
		seen[line] = true
	}
}

// Walks the whole surface the way a host program would: direct allocation,
// an owning handle in a nested scope, then concurrent workers.
func TestEndToEndAccounting(t *testing.T) {
	tr := New(Config{})

	// A 24-byte allocation moves TotalAllocated by exactly 24.
	baseAllocated := tr.TotalAllocated()
	baseUsage := tr.CurrentUsage()
	buf, err := tr.Allocate(24)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	if got := tr.TotalAllocated() - baseAllocated; got != 24 {
		t.Errorf("allocated delta = %d, want 24", got)
	}

	// Freeing it moves TotalFreed by 24 and restores usage.
	baseFreed := tr.TotalFreed()
	tr.Deallocate(buf, 24)
	if got := tr.TotalFreed() - baseFreed; got != 24 {
		t.Errorf("freed delta = %d, want 24", got)
	}
	if tr.CurrentUsage() != baseUsage {
		t.Errorf("usage = %d, want %d", tr.CurrentUsage(), baseUsage)
	}

	// A 12-byte object owned by a nested scope.
	func() {
		h, err := NewHandleOf(tr, point{X: 1, Y: 2, Z: 3})
		if err != nil {
			t.Fatalf("NewHandleOf failed: %v", err)
		}
		defer h.Release()
		if got := tr.CurrentUsage() - baseUsage; got != 12 {
			t.Errorf("usage delta inside scope = %d, want 12", got)
		}
	}()
	if tr.CurrentUsage() != baseUsage {
		t.Errorf("usage after scope = %d, want %d", tr.CurrentUsage(), baseUsage)
	}

	// Two workers each allocating ten 8-byte blocks: exactly 160 bytes.
	baseAllocated = tr.TotalAllocated()
	worker := func(int) {
		for i := 0; i < 10; i++ {
			b, err := tr.Allocate(8)
			if err != nil {
				t.Errorf("worker Allocate failed: %v", err)
				return
			}
			tr.Deallocate(b, 8)
		}
	}
	NewHarness(
		Task{Fn: worker, Arg: 1},
		Task{Fn: worker, Arg: 2},
	).Run()

	if got := tr.TotalAllocated() - baseAllocated; got != 160 {
		t.Errorf("allocated delta from workers = %d, want 160", got)
	}
	if tr.CurrentUsage() != baseUsage {
		t.Errorf("usage after workers = %d, want %d", tr.CurrentUsage(), baseUsage)
	}
}
