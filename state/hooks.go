package state

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Commit describes a transaction that published a new snapshot.
type Commit struct {
	ID          ulid.ULID
	At          time.Time
	Subscribers int
}

// Hooks observe the outcome of outermost transactions.
// Hooks run after the transaction marker is cleared. OnCommit runs before
// subscribers are notified.
type Hooks struct {
	OnCommit func(Commit)
	OnNoop   func()
	// OnRollback receives the change's error, or nil when the change panicked.
	OnRollback func(error)
}

type hookList []Hooks

func (h hookList) commit(c Commit) {
	for _, hooks := range h {
		if hooks.OnCommit != nil {
			hooks.OnCommit(c)
		}
	}
}

func (h hookList) noop() {
	for _, hooks := range h {
		if hooks.OnNoop != nil {
			hooks.OnNoop()
		}
	}
}

func (h hookList) rollback(err error) {
	for _, hooks := range h {
		if hooks.OnRollback != nil {
			hooks.OnRollback(err)
		}
	}
}
