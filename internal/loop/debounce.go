package loop

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period a burst of triggers must leave before the
// debounced task runs.
const DefaultDelay = 120 * time.Millisecond

// Debouncer runs a task on a loop after triggers stop arriving for Delay.
// Every Trigger cancels the pending run and schedules a new one.
type Debouncer struct {
	loop  *Loop
	delay time.Duration
	task  func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer posting task to l. A non-positive delay
// takes DefaultDelay.
func NewDebouncer(l *Loop, delay time.Duration, task func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{loop: l, delay: delay, task: task}
}

// Trigger (re)starts the delay. It is safe to call from any goroutine.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.loop.Post(func() {
			// a timer that fired just before being superseded is stale
			if !d.current(gen) {
				return
			}
			d.task()
		})
	})
}

// Cancel drops the pending run, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.timer = nil
	return true
}
