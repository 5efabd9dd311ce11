package runtime

import "errors"

var (
	// ErrNoScreen is returned by operations that need a screen on a headless loop.
	ErrNoScreen = errors.New("runtime: no screen")
	// ErrRunning is returned when Run is called on a loop that is already running.
	ErrRunning = errors.New("runtime: loop already running")
)
