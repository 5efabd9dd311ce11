package runtime

import (
	"sync/atomic"

	"github.com/odvcencio/furry-model/state"
)

// QueueScheduler enqueues subscriber callbacks and wakes the loop to flush them.
// Wake-ups are coalesced: one QueueFlushMsg is in flight at a time.
type QueueScheduler struct {
	queue   *state.Queue
	post    PostFunc
	pending atomic.Bool
}

// NewQueueScheduler wires a queue to a post function.
func NewQueueScheduler(queue *state.Queue, post PostFunc) *QueueScheduler {
	if queue == nil {
		queue = state.NewQueue()
	}
	return &QueueScheduler{queue: queue, post: post}
}

// Schedule enqueues fn and posts a flush request.
func (s *QueueScheduler) Schedule(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.queue.Schedule(fn)
	wake(&s.pending, s.post, QueueFlushMsg{})
}

// Queue returns the underlying queue.
func (s *QueueScheduler) Queue() *state.Queue {
	if s == nil {
		return nil
	}
	return s.queue
}

func (s *QueueScheduler) resetPending() {
	if s != nil {
		s.pending.Store(false)
	}
}

// Invalidator requests render passes, coalescing repeated requests until the
// loop has handled the previous one.
type Invalidator struct {
	post    PostFunc
	pending atomic.Bool
}

// NewInvalidator creates an invalidator wired to a post function.
func NewInvalidator(post PostFunc) *Invalidator {
	return &Invalidator{post: post}
}

// Invalidate requests a render pass.
func (i *Invalidator) Invalidate() {
	if i == nil {
		return
	}
	wake(&i.pending, i.post, InvalidateMsg{})
}

// Schedule runs fn immediately and requests a render pass.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i != nil {
		i.pending.Store(false)
	}
}

// wake posts msg unless one is already pending. A failed post clears the flag
// so the next caller retries.
func wake(pending *atomic.Bool, post PostFunc, msg Message) {
	if post == nil {
		return
	}
	if pending.CompareAndSwap(false, true) && !post(msg) {
		pending.Store(false)
	}
}
