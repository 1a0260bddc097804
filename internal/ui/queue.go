// Package ui holds the small runtime pieces a screen needs: a serial queue
// standing in for the UI thread and a bag of subscription cancellations.
package ui

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultQueueBuffer = 16

// MainQueue runs posted funcs one at a time on the goroutine that calls Run.
// Screen state must only be mutated from funcs posted here.
type MainQueue struct {
	tasks     chan func()
	done      chan struct{}
	stopOnce  sync.Once
	executing atomic.Bool
}

// NewMainQueue creates a queue with room for buffer pending funcs.
func NewMainQueue(buffer int) *MainQueue {
	if buffer <= 0 {
		buffer = defaultQueueBuffer
	}
	return &MainQueue{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post schedules fn. It returns false once the queue has stopped.
func (q *MainQueue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.tasks <- fn:
		return true
	case <-q.done:
		return false
	}
}

// Run executes funcs until ctx is cancelled or Stop is called.
func (q *MainQueue) Run(ctx context.Context) error {
	defer q.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case fn := <-q.tasks:
			q.exec(fn)
		}
	}
}

func (q *MainQueue) exec(fn func()) {
	q.executing.Store(true)
	defer q.executing.Store(false)
	fn()
}

// Executing reports whether a posted func is running right now.
func (q *MainQueue) Executing() bool { return q.executing.Load() }

// Stop ends Run and rejects further posts. Safe to call more than once.
func (q *MainQueue) Stop() {
	q.stopOnce.Do(func() { close(q.done) })
}

// Done is closed once the queue has stopped.
func (q *MainQueue) Done() <-chan struct{} { return q.done }
