// Package debounce coalesces bursts of events into a single delayed action.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the quiet period used for text input.
const DefaultInterval = 120 * time.Millisecond

// Task is a scheduled function that can be cancelled.
type Task interface {
	// Stop cancels the task. It returns false if the task already ran.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// SystemScheduler schedules with time.AfterFunc.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// Debouncer runs only the last function triggered within a quiet interval.
type Debouncer struct {
	mu        sync.Mutex
	wg        sync.WaitGroup
	interval  time.Duration
	scheduler Scheduler
	pending   Task
	fn        func()
	gen       uint64
	stopped   bool
}

// New creates a Debouncer using the system clock.
func New(interval time.Duration) *Debouncer {
	return NewWithScheduler(interval, SystemScheduler{})
}

// NewWithScheduler creates a Debouncer with a custom Scheduler.
func NewWithScheduler(interval time.Duration, s Scheduler) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if s == nil {
		s = SystemScheduler{}
	}
	return &Debouncer{interval: interval, scheduler: s}
}

// Interval returns the quiet period.
func (d *Debouncer) Interval() time.Duration { return d.interval }

// Trigger cancels any pending function and schedules fn after the interval.
// It is a no-op after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()

	d.gen++
	gen := d.gen
	d.fn = fn
	d.wg.Add(1)
	d.pending = d.scheduler.AfterFunc(d.interval, func() {
		defer d.wg.Done()
		d.run(gen)
	})
}

// Pending reports whether a function is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Flush runs the pending function now, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.fn
	d.cancelLocked()
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Stop cancels the pending function and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.cancelLocked()
}

// StopAndWait stops the debouncer and waits up to timeout for a function
// that already started to return. It reports whether all of them finished.
func (d *Debouncer) StopAndWait(timeout time.Duration) bool {
	d.Stop()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// cancelLocked drops the pending function. Bumping the generation makes a
// timer that already fired skip its call.
func (d *Debouncer) cancelLocked() {
	if d.pending != nil && d.pending.Stop() {
		d.wg.Done()
	}
	d.pending = nil
	d.fn = nil
	d.gen++
}

func (d *Debouncer) run(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.fn == nil {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.pending = nil
	d.mu.Unlock()
	fn()
}
