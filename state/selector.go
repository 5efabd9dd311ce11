package state

import "sync"

// Selector derives a value from a source and notifies its own subscribers
// only when the derived value changes.
//
// Without an EqualFunc every source notification counts as a change.
type Selector[S, R any] struct {
	mu    sync.Mutex
	src   Readable[S]
	pick  func(S) R
	equal EqualFunc[R]
	value R
	unsub func()
	subs  listeners[R]
}

// NewSelector derives a value from src with pick.
func NewSelector[S, R any](src Readable[S], pick func(S) R, equal EqualFunc[R]) *Selector[S, R] {
	return NewSelectorWithScheduler(nil, src, pick, equal)
}

// NewComparableSelector derives a value from src with pick and notifies only
// when the value changes under ==.
func NewComparableSelector[S any, R comparable](src Readable[S], pick func(S) R) *Selector[S, R] {
	return NewSelectorWithScheduler(nil, src, pick, EqualComparable[R])
}

// NewSelectorWithScheduler derives a value and schedules recomputes.
// If scheduler is nil, recomputes run synchronously with the source's notifications.
func NewSelectorWithScheduler[S, R any](scheduler Scheduler, src Readable[S], pick func(S) R, equal EqualFunc[R]) *Selector[S, R] {
	if pick == nil {
		pick = func(S) R {
			var zero R
			return zero
		}
	}
	sel := &Selector[S, R]{
		src:   src,
		pick:  pick,
		equal: equal,
	}
	if src != nil {
		sel.value = pick(src.Current())
		sel.unsub = src.SubscribeWithScheduler(scheduler, sel.recompute)
	}
	return sel
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (s *Selector[S, R]) SetEqualFunc(fn EqualFunc[R]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// SetSelector swaps the pick function and re-derives the value from the
// source's current snapshot without notifying subscribers.
func (s *Selector[S, R]) SetSelector(pick func(S) R) {
	if s == nil || pick == nil {
		return
	}
	s.mu.Lock()
	s.pick = pick
	s.mu.Unlock()
	if s.src != nil {
		s.set(pick(s.src.Current()), false)
	}
}

// Current returns the derived value.
func (s *Selector[S, R]) Current() R {
	if s == nil {
		var zero R
		return zero
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers a listener for derived value changes.
func (s *Selector[S, R]) Subscribe(fn func(R)) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Selector[S, R]) SubscribeWithScheduler(scheduler Scheduler, fn func(R)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subs.add(scheduler, fn)
}

// Stop detaches the selector from its source. The last value is kept.
func (s *Selector[S, R]) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Selector[S, R]) recompute(snapshot S) {
	s.mu.Lock()
	pick := s.pick
	s.mu.Unlock()
	s.set(pick(snapshot), true)
}

func (s *Selector[S, R]) set(next R, announce bool) bool {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, next) {
		s.mu.Unlock()
		return false
	}
	s.value = next
	s.mu.Unlock()
	if announce {
		notify(s.subs.snapshot(), s.Current)
	}
	return true
}
