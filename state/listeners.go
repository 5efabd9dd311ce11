package state

import "sync"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

type listener[S any] struct {
	id        int
	fn        func(S)
	scheduler Scheduler
}

// listeners is an ordered subscriber list. The same func may be registered
// more than once; each registration is removed independently.
type listeners[S any] struct {
	mu   sync.Mutex
	subs []listener[S]
	next int
}

func (l *listeners[S]) add(scheduler Scheduler, fn func(S)) func() {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs = append(l.subs, listener[S]{id: id, fn: fn, scheduler: scheduler})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.remove(id)
		})
	}
}

func (l *listeners[S]) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, sub := range l.subs {
		if sub.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *listeners[S]) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// snapshot copies the list so a notification pass is unaffected by
// subscribes and unsubscribes made while it runs.
func (l *listeners[S]) snapshot() []listener[S] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.subs) == 0 {
		return nil
	}
	subs := make([]listener[S], len(l.subs))
	copy(subs, l.subs)
	return subs
}

// notify delivers current() to each listener at the moment it runs, so a
// listener always sees the latest snapshot even when an earlier listener
// committed a newer one.
func notify[S any](subs []listener[S], current func() S) {
	for _, sub := range subs {
		if sub.fn == nil {
			continue
		}
		if sub.scheduler == nil {
			sub.fn(current())
			continue
		}
		fn := sub.fn
		sub.scheduler.Schedule(func() { fn(current()) })
	}
}
