package memtrack

import (
	"fmt"
	"io"
	"sync"
)

// Task pairs a worker function with the integer argument it will receive.
type Task struct {
	Fn  func(arg int)
	Arg int
}

// Harness runs a fixed set of tasks in parallel, one goroutine per task, and
// joins them all. Joining is the only synchronization boundary: there is no
// mid-flight cancellation, workers run to completion.
type Harness struct {
	tasks []Task
}

// NewHarness creates a harness over the given tasks.
func NewHarness(tasks ...Task) *Harness {
	return &Harness{tasks: tasks}
}

// Go adds a task to the harness. Must not be called concurrently with Run.
func (h *Harness) Go(fn func(arg int), arg int) {
	h.tasks = append(h.tasks, Task{Fn: fn, Arg: arg})
}

// Run spawns every task on its own goroutine and blocks until all complete.
func (h *Harness) Run() {
	var wg sync.WaitGroup
	for _, task := range h.tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			t.Fn(t.Arg)
		}(task)
	}
	wg.Wait()
}

// SyncWriter serializes writes to a shared io.Writer under a mutex so that
// output from concurrent workers does not interleave mid-line. The lock
// covers only the write itself; callers must not allocate through a tracker
// while composing into it, and the fast allocation path never touches this
// lock.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w in a SyncWriter.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

// Write implements io.Writer, holding the lock for the duration of the
// single underlying write.
func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Printf formats into a local buffer first and then performs one locked
// write, so a formatted record is never split across concurrent writers.
func (s *SyncWriter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, msg)
}
