package memtrack

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// Report is what a finished Snapshot delivers to its sink.
type Report struct {
	Elapsed   time.Duration // wall-clock time between start and stop
	Allocated uint64        // bytes allocated during the window
	Freed     uint64        // bytes freed during the window
}

// Millis returns the elapsed time in milliseconds.
func (r Report) Millis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Sink receives snapshot reports. Report may be called from whichever
// goroutine stops the snapshot.
type Sink interface {
	Report(Report)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Report)

// Report implements Sink.
func (f SinkFunc) Report(r Report) { f(r) }

// NewWriterSink returns a sink that prints one line per report to w in the
// form "Timer took <ms> ms".
func NewWriterSink(w io.Writer) Sink {
	return SinkFunc(func(r Report) {
		fmt.Fprintf(w, "Timer took %.3f ms\n", r.Millis())
	})
}

// NewZapSink returns a sink that logs reports through log at info level.
func NewZapSink(log *zap.Logger) Sink {
	return SinkFunc(func(r Report) {
		log.Info("timer took",
			zap.Float64("ms", r.Millis()),
			zap.Uint64("allocated_bytes", r.Allocated),
			zap.Uint64("freed_bytes", r.Freed),
		)
	})
}

// Snapshot captures time and allocation totals at its start and reports the
// deltas once on Stop. The deltas are taken against the tracker's live
// global counters, so concurrent work elsewhere in the process shows up in
// the window. That is by contract: this is a window over shared totals, not
// per-goroutine accounting.
type Snapshot struct {
	t    *Tracker
	sink Sink

	begin          time.Time
	beginAllocated uint64
	beginFreed     uint64
	stopped        bool
}

// StartSnapshot records the current time and allocation totals and returns a
// snapshot whose Stop reports the deltas to sink. A nil sink prints to
// standard output. The usual pattern is
//
//	defer tracker.StartSnapshot(nil).Stop()
//
// which reports on every exit path from the enclosing function.
func (t *Tracker) StartSnapshot(sink Sink) *Snapshot {
	if sink == nil {
		sink = NewWriterSink(os.Stdout)
	}
	return &Snapshot{
		t:              t,
		sink:           sink,
		begin:          t.clk.Now(),
		beginAllocated: t.TotalAllocated(),
		beginFreed:     t.TotalFreed(),
	}
}

// Stop computes the elapsed time and allocation deltas since the snapshot
// began and delivers them to the sink. Only the first Stop reports; later
// calls are no-ops.
func (s *Snapshot) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.sink.Report(Report{
		Elapsed:   s.t.clk.Now().Sub(s.begin),
		Allocated: s.t.TotalAllocated() - s.beginAllocated,
		Freed:     s.t.TotalFreed() - s.beginFreed,
	})
}
