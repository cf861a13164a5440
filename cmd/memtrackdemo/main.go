// Command memtrackdemo walks through the memtrack API: raw allocation,
// owning handles, scoped timing, and concurrent workers sharing a console.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/pavanmanishd/memtrack"
	promexport "github.com/pavanmanishd/memtrack/export/prometheus"
)

// object is a 12-byte payload, three 4-byte coordinates.
type object struct {
	X, Y, Z int32
}

// label is a 24-byte payload, the size of a string header plus an int64.
type label struct {
	Name string
	ID   int64
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	tracker := memtrack.Initialize(memtrack.Config{})
	defer func() {
		if err := memtrack.Shutdown(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	printUsage(log, tracker)

	// A 24-byte object, freed explicitly.
	lbl, err := memtrack.NewHandleOf(tracker, label{Name: "hello", ID: 1})
	if err != nil {
		log.Fatal("allocate label", zap.Error(err))
	}
	printUsage(log, tracker)

	// A 12-byte object owned by a nested scope: usage rises on entry and
	// falls back on exit.
	func() {
		obj, err := memtrack.NewHandleOf(tracker, object{X: 1, Y: 2, Z: 3})
		if err != nil {
			log.Fatal("allocate object", zap.Error(err))
		}
		defer obj.Release()
		printUsage(log, tracker)
	}()
	printUsage(log, tracker)

	lbl.Release()
	printUsage(log, tracker)

	// Time an allocation-heavy region; the sink reports on scope exit.
	console := memtrack.NewSyncWriter(os.Stdout)
	func() {
		defer tracker.StartSnapshot(memtrack.NewZapSink(log)).Stop()
		for i := 0; i < 1000; i++ {
			buf, err := tracker.Allocate(64)
			if err != nil {
				log.Fatal("allocate", zap.Error(err))
			}
			tracker.Deallocate(buf, 64)
		}
	}()

	// Two workers, each allocating ten 8-byte blocks and writing through a
	// mutex-serialized console. The harness joins both before returning.
	worker := func(n int) {
		console.Printf("Hello worker! Received number: %d\n", n)
		for i := 0; i < 10; i++ {
			buf, err := tracker.Allocate(8)
			if err != nil {
				log.Error("worker allocate", zap.Int("arg", n), zap.Error(err))
				return
			}
			tracker.Deallocate(buf, 8)
		}
	}
	table := func(n int) {
		for i := 1; i <= 10; i++ {
			console.Printf("%d x %d = %d\n", n, i, n*i)
		}
		worker(n)
	}

	harness := memtrack.NewHarness(
		memtrack.Task{Fn: worker, Arg: 42},
		memtrack.Task{Fn: table, Arg: 25},
	)
	harness.Run()

	printUsage(log, tracker)
	_, _ = os.Stdout.WriteString(promexport.NewExporter(tracker).Render())
}

func printUsage(log *zap.Logger, tracker *memtrack.Tracker) {
	m := tracker.Metrics()
	log.Info("memory usage",
		zap.Uint64("in_use_bytes", m.CurrentUsage),
		zap.Uint64("allocated_bytes", m.TotalAllocated),
		zap.Uint64("freed_bytes", m.TotalFreed),
	)
}
