package runtime

import (
	"context"
	"time"
)

// PostFunc hands a message to the loop and reports whether it was accepted.
type PostFunc func(Message) bool

// Effect is background work started by the loop. Run must return once ctx
// is done. Effects never touch stores directly; they post a CallMsg and the
// loop applies the change.
type Effect struct {
	Name string
	Run  func(ctx context.Context, post PostFunc)
}

// After posts msg once delay has passed, unless the loop stops first.
func After(delay time.Duration, msg Message) Effect {
	return Effect{Name: "after", Run: func(ctx context.Context, post PostFunc) {
		if msg == nil || post == nil {
			return
		}
		if wait(ctx, delay) {
			post(msg)
		}
	}}
}

// Every calls fn on each interval and posts what it returns. A nil message
// is skipped.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{Name: "every", Run: func(ctx context.Context, post PostFunc) {
		if interval <= 0 || fn == nil || post == nil {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if msg := fn(now); msg != nil {
					post(msg)
				}
			}
		}
	}}
}

// wait blocks for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
