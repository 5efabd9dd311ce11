package runtime

import "github.com/odvcencio/furry-model/state"

// QueueFlushPolicy decides which messages drain a state queue.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick drains after every message.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage drains after every message but TickMsg.
	FlushOnMessage
	// FlushOnTick drains on TickMsg only.
	FlushOnTick
	// FlushManual drains on QueueFlushMsg only.
	FlushManual
)

var flushPolicyNames = map[QueueFlushPolicy]string{
	FlushOnMessageAndTick: "message+tick",
	FlushOnMessage:        "message",
	FlushOnTick:           "tick",
	FlushManual:           "manual",
}

// String returns the policy name used in logs.
func (p QueueFlushPolicy) String() string {
	if name, ok := flushPolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

// QueueBinding attaches an extra state queue to a loop. Subscribers that
// should only run at a different cadence than the loop's own queue, such as
// once per tick, schedule on Queue.
type QueueBinding struct {
	Queue  *state.Queue
	Policy QueueFlushPolicy
}

// WithQueuePolicy returns an UpdateFunc that runs update and then drains
// queue when policy matches msg. A drain that ran callbacks requests a render.
// If update is nil, DefaultUpdate is used.
func WithQueuePolicy(queue *state.Queue, policy QueueFlushPolicy, update UpdateFunc) UpdateFunc {
	if update == nil {
		update = DefaultUpdate
	}
	if queue == nil {
		return update
	}
	return func(loop *Loop, msg Message) bool {
		dirty := update(loop, msg)
		if shouldFlushQueue(policy, msg) && queue.Flush() > 0 {
			dirty = true
		}
		return dirty
	}
}

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	switch msg.(type) {
	case QueueFlushMsg:
		return true
	case TickMsg:
		return policy == FlushOnTick || policy == FlushOnMessageAndTick
	default:
		return policy == FlushOnMessage || policy == FlushOnMessageAndTick
	}
}
