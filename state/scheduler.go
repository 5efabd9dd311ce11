package state

import "sync"

// Scheduler dispatches subscriber callbacks.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function into a Scheduler.
type SchedulerFunc func(func())

// Schedule dispatches fn using the wrapped function.
func (f SchedulerFunc) Schedule(fn func()) {
	if f == nil || fn == nil {
		return
	}
	f(fn)
}

// DirectScheduler runs callbacks immediately in the caller goroutine.
var DirectScheduler Scheduler = SchedulerFunc(func(fn func()) {
	if fn != nil {
		fn()
	}
})

// maxFlushRounds bounds how many times Flush re-drains callbacks that were
// scheduled by callbacks it ran.
const maxFlushRounds = 64

// Queue holds callbacks until the owner flushes them, typically once per UI
// loop iteration.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Schedule enqueues a callback for the next flush.
func (q *Queue) Schedule(fn func()) {
	if q == nil || fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs pending callbacks in order and returns how many ran.
// Callbacks scheduled during the flush run in the same call, up to a bounded
// number of rounds; anything beyond that stays queued.
func (q *Queue) Flush() int {
	if q == nil {
		return 0
	}
	ran := 0
	for round := 0; round < maxFlushRounds; round++ {
		q.mu.Lock()
		pending := q.pending
		q.pending = nil
		q.mu.Unlock()
		if len(pending) == 0 {
			break
		}
		for _, fn := range pending {
			fn()
		}
		ran += len(pending)
	}
	return ran
}
