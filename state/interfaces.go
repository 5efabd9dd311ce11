package state

// Readable exposes read-only snapshot state.
type Readable[S any] interface {
	Current() S
	Subscribe(fn func(S)) func()
	SubscribeWithScheduler(scheduler Scheduler, fn func(S)) func()
}

// Writable exposes transactional updates over snapshot state.
type Writable[S any] interface {
	Readable[S]
	Update(change Change[S]) error
	Updating() bool
}

var (
	_ Writable[int]    = (*Store[int])(nil)
	_ Readable[string] = (*Selector[int, string])(nil)
)
