// Package debounce provides cancellable timers for delaying actions until a
// quiet period has elapsed.
package debounce

import (
	"sync"
	"time"
)

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler creates timers. Production code uses SystemScheduler; tests use
// ManualScheduler to control time explicitly.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemScheduler struct{}

func (systemScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemScheduler schedules callbacks on the runtime timer.
var SystemScheduler Scheduler = systemScheduler{}

// Debouncer holds at most one pending callback. Scheduling a new callback
// always cancels the previous one.
type Debouncer struct {
	mu        sync.Mutex
	scheduler Scheduler
	timer     Timer
	duration  time.Duration
	seq       uint64
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(duration time.Duration, scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = SystemScheduler
	}
	return &Debouncer{duration: duration, scheduler: scheduler}
}

// Duration returns the quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Debounce schedules fn after the quiet period, replacing any pending call.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.scheduler.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// a Stop that lost the race with the timer goroutine must still win
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Immediate cancels any pending call and runs fn now.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}
