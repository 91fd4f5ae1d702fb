package pipeline

import (
	"errors"
	"sync/atomic"
)

// ErrRunInProgress is returned when a scrape run is requested while
// another one is still running.
var ErrRunInProgress = errors.New("scrape run already in progress")

// RunGuard serializes scrape runs. One process-wide guard keeps
// concurrent triggers (CLI, future schedulers) from running the pipeline
// twice against the same output directory.
type RunGuard struct {
	running atomic.Bool
}

// Acquire claims the guard. Callers must Release after the run.
func (g *RunGuard) Acquire() error {
	if !g.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	return nil
}

// Release frees the guard.
func (g *RunGuard) Release() {
	g.running.Store(false)
}
