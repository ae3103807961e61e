// Package runner executes one batch at a time on a background goroutine and
// relays progress, log lines and completion to the event bus. Front ends
// subscribe to the bus; nothing flows back from them into a running batch.
package runner

import (
	"errors"
	"sync"

	"github.com/unshleepd/que/internal/events"
	"github.com/unshleepd/que/internal/logging"
	"github.com/unshleepd/que/internal/puppets"
)

// ErrRunInProgress is returned when a start is attempted while a batch is
// still running. Batches are never concurrent.
var ErrRunInProgress = errors.New("a run is already in progress")

// Kinds of runs, carried in run events.
const (
	KindProcess = "process"
	KindEndorse = "endorse"
	KindVote    = "vote"
)

// RunFunc performs the batch, reporting fractional progress through the
// callback. The boolean mirrors the batch's own success notion ("the loop
// ran"), not per-item outcomes.
type RunFunc func(progress puppets.ProgressFunc) bool

// Runner owns the single background worker.
type Runner struct {
	bus    events.EventBus
	logger *logging.Logger

	mu      sync.Mutex
	running bool
	done    sync.WaitGroup
}

// New creates a runner publishing to the given bus.
func New(bus events.EventBus, logger *logging.Logger) *Runner {
	return &Runner{
		bus:    bus,
		logger: logger,
	}
}

// Running reports whether a batch is currently executing.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches a batch on the worker goroutine. onDone, if non-nil, is
// invoked after the batch finishes (front ends use it to re-enable their
// controls). There is no cancellation; a started run goes to completion.
func (r *Runner) Start(kind string, total int, fn RunFunc, onDone func(ok bool)) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrRunInProgress
	}
	r.running = true
	r.mu.Unlock()

	r.bus.Publish(events.NewRunStartedEvent(kind, total))
	r.logger.Infof("Starting %s run (%d items)", kind, total)

	r.done.Add(1)
	go func() {
		defer r.done.Done()

		ok := r.execute(kind, fn)

		r.mu.Lock()
		r.running = false
		r.mu.Unlock()

		r.bus.Publish(events.NewRunCompletedEvent(kind, ok))
		if ok {
			r.logger.Infof("%s run completed", kind)
		} else {
			r.logger.Warnf("%s run finished with failure", kind)
		}

		if onDone != nil {
			onDone(ok)
		}
	}()

	return nil
}

// Wait blocks until the current run (if any) has finished.
func (r *Runner) Wait() {
	r.done.Wait()
}

// execute runs the batch with panic containment so a worker crash cannot
// take down the process or leave the runner marked busy.
func (r *Runner) execute(kind string, fn RunFunc) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("%s run panicked: %v", kind, rec)
			ok = false
		}
	}()

	progress := func(percent int) {
		r.bus.Publish(events.NewRunProgressEvent(kind, percent))
	}

	return fn(progress)
}
