package runtime

import (
	"time"

	"github.com/odvcencio/furry-model/state"
)

// Services exposes loop scheduling and messaging helpers to widgets.
type Services struct {
	loop *Loop
}

// Services returns a service handle for the loop.
func (l *Loop) Services() Services {
	return Services{loop: l}
}

func (s Services) isZero() bool {
	return s.loop == nil
}

// Scheduler returns the loop state scheduler.
func (s Services) Scheduler() state.Scheduler {
	if s.loop == nil {
		return nil
	}
	return s.loop.StateScheduler()
}

// InvalidateScheduler returns the loop invalidation scheduler.
func (s Services) InvalidateScheduler() state.Scheduler {
	if s.loop == nil {
		return nil
	}
	return s.loop.InvalidateScheduler()
}

// Invalidate requests a render pass.
func (s Services) Invalidate() {
	if s.loop != nil {
		s.loop.Invalidate()
	}
}

// Post sends a message into the loop.
func (s Services) Post(msg Message) bool {
	if s.loop == nil {
		return false
	}
	return s.loop.TryPost(msg)
}

// Dispatch runs fn on the loop goroutine.
func (s Services) Dispatch(fn func()) bool {
	if s.loop == nil {
		return false
	}
	return s.loop.Dispatch(fn)
}

// Spawn starts an effect using the loop task context.
func (s Services) Spawn(effect Effect) {
	if s.loop != nil {
		s.loop.Spawn(effect)
	}
}

// After schedules a delayed message.
func (s Services) After(delay time.Duration, msg Message) {
	if s.loop != nil {
		s.loop.After(delay, msg)
	}
}

// Every schedules a recurring message.
func (s Services) Every(interval time.Duration, fn func(time.Time) Message) {
	if s.loop != nil {
		s.loop.Every(interval, fn)
	}
}
