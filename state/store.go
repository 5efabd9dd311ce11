// Package state holds application state for terminal UI components.
//
// A Store keeps an immutable snapshot. Changes are applied to a draft inside a
// transaction; nested updates made while a transaction is open fold into it,
// and subscribers hear about each committed transaction exactly once.
package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-model/draft"
	"github.com/odvcencio/furry-model/internal/logging"
)

// Store owns one snapshot, the open transaction (if any) and the subscriber list.
//
// Update must be called from a single goroutine, usually the UI loop; see
// runtime.Loop.Dispatch for handing updates over from other goroutines.
// Current, Updating and the subscribe methods are safe from any goroutine.
type Store[S any] struct {
	engine    draft.Engine[S]
	logger    *slog.Logger
	hooks     hookList
	scheduler Scheduler

	mu      sync.RWMutex
	current S
	open    *draft.Draft[S]
	subs    listeners[S]
}

// New creates a store whose first snapshot is initial, normalized by the engine.
// Later changes to initial do not reach the store.
func New[S any](initial S, opts ...Option) *Store[S] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	engine, ok := cfg.engine.(draft.Engine[S])
	if !ok {
		engine = draft.Reflect[S]()
	}
	logger := cfg.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.engine != nil && !ok {
		logger.Warn("ignoring engine with mismatched state type", "engine", cfg.engine)
	}
	return &Store[S]{
		engine:    engine,
		logger:    logger,
		hooks:     cfg.hooks,
		scheduler: cfg.scheduler,
		current:   engine.Produce(initial),
	}
}

// Current returns the latest committed snapshot. Inside a transaction it is
// still the snapshot the draft was made from. Callers must not mutate it.
func (s *Store[S]) Current() S {
	if s == nil {
		var zero S
		return zero
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Updating reports whether a transaction is open.
func (s *Store[S]) Updating() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open != nil
}

// Update applies change in a transaction.
//
// Called while a transaction is open (from inside another change), change is
// applied to the open draft and its error returned; the outer call commits
// and notifies. Otherwise a new draft is made from the current snapshot. If
// change fails or panics, nothing is published and the error or panic reaches
// the caller untouched. On success the draft is finalized; an unchanged draft
// keeps the current snapshot and notifies nobody, a changed one is published
// and every subscriber is called in registration order.
//
// Subscribers run after the transaction has closed, so updates they make are
// transactions of their own. A panicking subscriber stops the remaining
// notifications and propagates; the commit stands.
func (s *Store[S]) Update(change Change[S]) error {
	if s == nil || change == nil {
		return nil
	}

	s.mu.Lock()
	if open := s.open; open != nil {
		s.mu.Unlock()
		return change.apply(s.engine, open)
	}
	d := s.engine.CreateDraft(s.current)
	s.open = d
	s.mu.Unlock()

	var err error
	done := false
	defer func() {
		if done {
			return
		}
		s.close(d)
		d.Revoke()
		s.logger.Debug("transaction rolled back")
		s.hooks.rollback(err)
	}()

	if err = change.apply(s.engine, d); err != nil {
		return err
	}

	next, changed := s.engine.FinishDraft(d)
	s.mu.Lock()
	if s.open == d {
		s.open = nil
	}
	if !changed {
		s.mu.Unlock()
		done = true
		s.logger.Debug("transaction committed without changes")
		s.hooks.noop()
		return nil
	}
	s.current = next
	s.mu.Unlock()
	done = true

	subs := s.subs.snapshot()
	commit := Commit{ID: ulid.Make(), At: time.Now(), Subscribers: len(subs)}
	s.logger.Debug("transaction committed", "commit", commit.ID.String(), "subscribers", commit.Subscribers)
	s.hooks.commit(commit)
	notify(subs, s.Current)
	return nil
}

// Apply normalizes v with ChangeOf and runs it through Update.
func (s *Store[S]) Apply(v any) error {
	change, err := ChangeOf[S](v)
	if err != nil {
		return err
	}
	return s.Update(change)
}

// Patch assigns fields onto the state in a transaction.
func (s *Store[S]) Patch(fields map[string]any) error {
	return s.Update(Patch[S](fields))
}

// Subscribe registers fn for new snapshots using the store's default scheduler.
// fn is not called with the current snapshot. The returned func unsubscribes
// this registration only; calling it again does nothing.
func (s *Store[S]) Subscribe(fn func(S)) func() {
	if s == nil {
		return func() {}
	}
	return s.SubscribeWithScheduler(s.scheduler, fn)
}

// SubscribeWithScheduler registers fn using a scheduler.
// If scheduler is nil, fn runs synchronously inside Update.
func (s *Store[S]) SubscribeWithScheduler(scheduler Scheduler, fn func(S)) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subs.add(scheduler, fn)
}

// Subscribers returns the number of registered subscribers.
func (s *Store[S]) Subscribers() int {
	if s == nil {
		return 0
	}
	return s.subs.len()
}

func (s *Store[S]) close(d *draft.Draft[S]) {
	s.mu.Lock()
	if s.open == d {
		s.open = nil
	}
	s.mu.Unlock()
}
