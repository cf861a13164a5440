package memtrack

import (
	"fmt"
	"sync"
)

// The process-wide tracker. Constructed explicitly by Initialize rather than
// at package load, so hosts control exactly when accounting begins and ends.
var (
	globalMu      sync.Mutex
	globalTracker *Tracker
)

// Initialize constructs the process-wide tracker from cfg and returns it.
// Hosts call it exactly once at startup; a second call before Shutdown
// panics.
func Initialize(cfg Config) *Tracker {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTracker != nil {
		panic("memtrack: already initialized")
	}
	globalTracker = New(cfg)
	return globalTracker
}

// Global returns the process-wide tracker. It panics if Initialize has not
// been called, which is always a host wiring bug.
func Global() *Tracker {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTracker == nil {
		panic("memtrack: not initialized")
	}
	return globalTracker
}

// Shutdown tears down the process-wide tracker. It returns an error if bytes
// are still live, which means something allocated through the tracker and
// never freed. Calling Shutdown without a prior Initialize panics.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTracker == nil {
		panic("memtrack: not initialized")
	}
	usage := globalTracker.CurrentUsage()
	globalTracker = nil
	if usage != 0 {
		return fmt.Errorf("memtrack: shutdown with %d bytes still in use", usage)
	}
	return nil
}
