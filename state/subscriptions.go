package state

import "sync"

// Subscriptions owns the store registrations of one component so they can be
// released together, usually on unmount. Observe delivers snapshots through
// the bundle's scheduler.
type Subscriptions struct {
	mu       sync.Mutex
	releases []func()
	sched    Scheduler
}

// NewSubscriptions creates a bundle that delivers through scheduler.
func NewSubscriptions(scheduler Scheduler) *Subscriptions {
	return &Subscriptions{sched: scheduler}
}

// SetScheduler changes the scheduler used by later Observe calls.
func (s *Subscriptions) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Scheduler returns the scheduler used by Observe.
func (s *Subscriptions) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched
}

// Add takes ownership of a release func returned by a Subscribe call.
func (s *Subscriptions) Add(release func()) {
	if s == nil || release == nil {
		return
	}
	s.mu.Lock()
	s.releases = append(s.releases, release)
	s.mu.Unlock()
}

// Len returns the number of live registrations.
func (s *Subscriptions) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

// Clear releases every registration, newest first, and empties the bundle.
func (s *Subscriptions) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	releases := s.releases
	s.releases = nil
	s.mu.Unlock()
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

// Subscribe delivers src snapshots to fn synchronously until subs is cleared.
func Subscribe[S any](subs *Subscriptions, src Readable[S], fn func(S)) {
	SubscribeWithScheduler(subs, src, nil, fn)
}

// Observe delivers src snapshots to fn through the scheduler of subs.
func Observe[S any](subs *Subscriptions, src Readable[S], fn func(S)) {
	if subs == nil {
		return
	}
	SubscribeWithScheduler(subs, src, subs.Scheduler(), fn)
}

// SubscribeWithScheduler delivers src snapshots to fn through scheduler until
// subs is cleared.
func SubscribeWithScheduler[S any](subs *Subscriptions, src Readable[S], scheduler Scheduler, fn func(S)) {
	if subs == nil || src == nil || fn == nil {
		return
	}
	subs.Add(src.SubscribeWithScheduler(scheduler, fn))
}
