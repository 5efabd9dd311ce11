package state

import "errors"

var (
	// ErrAsyncUpdate is returned when a change hands back a result that completes
	// later. Updates run to completion before Update returns.
	ErrAsyncUpdate = errors.New("state: updates must be synchronous")
	// ErrUnsupportedChange is returned by ChangeOf for values that are not changes.
	ErrUnsupportedChange = errors.New("state: unsupported change")
)
