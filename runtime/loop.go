// Package runtime hosts stores and widgets on a single event-loop goroutine.
//
// Stores are updated from the loop goroutine only. Background work posts
// messages, or hands a function to Dispatch, and the loop runs it between
// renders.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-model/internal/logging"
	"github.com/odvcencio/furry-model/state"
)

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(loop *Loop, msg Message) bool

// LoopConfig configures a Loop.
type LoopConfig struct {
	// Screen is optional; without one the loop runs headless.
	Screen        tcell.Screen
	Root          Widget
	Update        UpdateFunc
	MessageBuffer int
	TickRate      time.Duration
	StateQueue    *state.Queue
	FlushPolicy   QueueFlushPolicy
	// Queues are drained after the update func, each by its own policy.
	Queues []QueueBinding
	Logger *slog.Logger
}

// Loop owns the goroutine that updates stores, flushes scheduled
// subscribers and draws the widget tree.
type Loop struct {
	screen         tcell.Screen
	root           Widget
	update         UpdateFunc
	messages       chan Message
	tickRate       time.Duration
	stateQueue     *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	logger         *slog.Logger

	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect

	running atomic.Bool
	quit    atomic.Bool
	mounted bool
	dirty   bool
	frames  int64
}

// NewLoop creates a loop from config.
func NewLoop(cfg LoopConfig) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.StateQueue
	if queue == nil {
		queue = state.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	update := cfg.Update
	if update == nil {
		update = DefaultUpdate
	}
	for _, binding := range cfg.Queues {
		update = WithQueuePolicy(binding.Queue, binding.Policy, update)
	}
	loop := &Loop{
		screen:      cfg.Screen,
		root:        cfg.Root,
		update:      update,
		messages:    make(chan Message, bufferSize),
		tickRate:    cfg.TickRate,
		stateQueue:  queue,
		flushPolicy: cfg.FlushPolicy,
		logger:      logger,
	}
	loop.queueScheduler = NewQueueScheduler(queue, loop.TryPost)
	loop.invalidator = NewInvalidator(loop.TryPost)
	return loop
}

// Screen returns the configured screen, or nil when headless.
func (l *Loop) Screen() tcell.Screen {
	if l == nil {
		return nil
	}
	return l.screen
}

// Root returns the root widget.
func (l *Loop) Root() Widget {
	if l == nil {
		return nil
	}
	return l.root
}

// SetRoot swaps the root widget. Call it from the loop goroutine once Run has
// started; the old tree is unmounted and the new one mounted.
func (l *Loop) SetRoot(root Widget) {
	if l == nil {
		return
	}
	if l.mounted {
		UnmountTree(l.root)
		MountTree(root, l.Services())
	}
	l.root = root
	l.dirty = true
}

// StateQueue returns the loop's state queue.
func (l *Loop) StateQueue() *state.Queue {
	if l == nil {
		return nil
	}
	return l.stateQueue
}

// StateScheduler returns a scheduler that queues callbacks and wakes the loop
// to flush them.
func (l *Loop) StateScheduler() state.Scheduler {
	if l == nil || l.queueScheduler == nil {
		return nil
	}
	return l.queueScheduler
}

// InvalidateScheduler returns a scheduler that runs callbacks immediately and
// requests a render pass.
func (l *Loop) InvalidateScheduler() state.Scheduler {
	if l == nil || l.invalidator == nil {
		return nil
	}
	return l.invalidator
}

// Invalidate requests a render pass.
func (l *Loop) Invalidate() {
	if l == nil {
		return
	}
	l.invalidator.Invalidate()
}

// PostQueueFlush requests a state queue flush.
func (l *Loop) PostQueueFlush() {
	l.Post(QueueFlushMsg{})
}

// Post sends a message to the loop, dropping it if the buffer is full.
func (l *Loop) Post(msg Message) {
	_ = l.TryPost(msg)
}

// TryPost sends a message to the loop without blocking.
func (l *Loop) TryPost(msg Message) bool {
	if l == nil || l.messages == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Dispatch runs fn on the loop goroutine. It is the way to update a store
// from another goroutine. It returns false when the message buffer is full.
func (l *Loop) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	return l.TryPost(CallMsg{Fn: fn})
}

// Quit asks the loop to stop after the current message.
func (l *Loop) Quit() {
	if l == nil {
		return
	}
	l.quit.Store(true)
	l.Post(QuitMsg{})
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l != nil && l.running.Load()
}

// Spawn starts an effect using the loop task context.
// If Run has not started, the effect is queued until start.
func (l *Loop) Spawn(effect Effect) {
	if l == nil || effect.Run == nil {
		return
	}
	l.taskMu.Lock()
	ctx := l.taskCtx
	if ctx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.taskMu.Unlock()
		return
	}
	l.taskMu.Unlock()
	l.runEffect(ctx, effect)
}

// After schedules a delayed message using the loop task context.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every schedules a recurring message using the loop task context.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Render draws the widget tree immediately. Call it from the loop goroutine.
func (l *Loop) Render() error {
	if l == nil || l.screen == nil {
		return ErrNoScreen
	}
	l.render()
	return nil
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() int64 {
	if l == nil {
		return 0
	}
	return atomic.LoadInt64(&l.frames)
}

// Run processes messages until Quit is called or ctx is cancelled.
// It returns nil after Quit and ctx.Err() after cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)
	if ctx == nil {
		ctx = context.Background()
	}

	taskCtx, taskCancel := context.WithCancel(ctx)
	l.taskMu.Lock()
	l.taskCtx = taskCtx
	l.taskCancel = taskCancel
	l.taskMu.Unlock()
	defer func() {
		taskCancel()
		l.taskMu.Lock()
		l.taskCtx = nil
		l.taskCancel = nil
		l.taskMu.Unlock()
	}()

	if l.screen != nil {
		if err := l.screen.Init(); err != nil {
			return fmt.Errorf("init screen: %w", err)
		}
		defer l.screen.Fini()
		l.screen.HideCursor()
		go l.pollEvents()
	}

	MountTree(l.root, l.Services())
	l.mounted = true
	defer func() {
		UnmountTree(l.root)
		l.mounted = false
	}()

	l.logger.Debug("loop started", "headless", l.screen == nil, "flush_policy", l.flushPolicy.String())
	l.startPendingEffects(taskCtx)

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.dirty = true
	l.quit.Store(false)
	for {
		if l.dirty {
			l.render()
			l.dirty = false
		}

		var msg Message
		select {
		case <-ctx.Done():
			l.logger.Debug("loop cancelled")
			return ctx.Err()
		case msg = <-l.messages:
		case now := <-ticks:
			msg = TickMsg{Time: now}
		}

		if l.handle(msg) {
			l.dirty = true
		}
		if l.quit.Load() {
			l.logger.Debug("loop stopped", "frames", l.Frames())
			return nil
		}
		if l.flushQueueIfNeeded(msg) {
			l.dirty = true
		}
		if _, ok := msg.(InvalidateMsg); ok {
			l.invalidator.resetPending()
		}
	}
}

// DefaultUpdate redraws on resize and invalidation.
func DefaultUpdate(loop *Loop, msg Message) bool {
	switch msg.(type) {
	case ResizeMsg:
		if screen := loop.Screen(); screen != nil {
			screen.Sync()
		}
		return true
	case InvalidateMsg:
		return true
	default:
		return false
	}
}

func (l *Loop) handle(msg Message) bool {
	switch m := msg.(type) {
	case CallMsg:
		if m.Fn != nil {
			m.Fn()
		}
	case QuitMsg:
		l.quit.Store(true)
		return false
	}
	return l.update(l, msg)
}

func (l *Loop) pollEvents() {
	for {
		ev := l.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			l.Post(keyMsg(e))
		case *tcell.EventResize:
			w, h := e.Size()
			l.Post(ResizeMsg{Width: w, Height: h})
		}
	}
}

func (l *Loop) render() {
	if l.screen == nil {
		return
	}
	l.screen.Clear()
	if l.root != nil {
		w, h := l.screen.Size()
		l.root.Draw(l.screen, Rect{Width: w, Height: h})
	}
	l.screen.Show()
	frame := atomic.AddInt64(&l.frames, 1)
	l.logger.Debug("frame rendered", "frame", frame)
}

func (l *Loop) runEffect(ctx context.Context, effect Effect) {
	l.logger.Debug("effect started", "effect", effect.Name)
	go effect.Run(ctx, l.TryPost)
}

func (l *Loop) startPendingEffects(ctx context.Context) {
	l.taskMu.Lock()
	effects := l.pendingEffects
	l.pendingEffects = nil
	l.taskMu.Unlock()
	for _, effect := range effects {
		l.runEffect(ctx, effect)
	}
}

func (l *Loop) flushQueueIfNeeded(msg Message) bool {
	if l.stateQueue == nil || !shouldFlushQueue(l.flushPolicy, msg) {
		return false
	}
	l.queueScheduler.resetPending()
	return l.stateQueue.Flush() > 0
}
