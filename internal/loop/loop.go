// Package loop runs tasks one at a time on a single goroutine, the way a
// page's event loop runs scripts, and provides a cancel-then-restart
// debounced task on top of it.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned by Do once the loop has stopped.
var ErrStopped = errors.New("loop stopped")

// Loop serializes tasks. Everything that touches a document or its engine
// runs through Post or Do so no two tasks ever overlap.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New returns a loop with a task queue of the given capacity. Run must be
// called to start processing.
func New(queue int) *Loop {
	if queue <= 0 {
		queue = 64
	}
	return &Loop{tasks: make(chan func(), queue), done: make(chan struct{})}
}

// Run processes tasks until ctx is cancelled. Tasks still queued when ctx
// ends are dropped.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn without waiting for it. It reports false if the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
