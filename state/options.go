package state

import (
	"log/slog"

	"github.com/odvcencio/furry-model/draft"
)

type config struct {
	engine    any
	logger    *slog.Logger
	hooks     hookList
	scheduler Scheduler
}

// Option configures a Store.
type Option func(*config)

// WithEngine replaces the default reflection engine. The engine's type
// parameter must match the store's; a mismatched engine is ignored.
func WithEngine[S any](engine draft.Engine[S]) Option {
	return func(c *config) {
		c.engine = engine
	}
}

// WithLogger sets a structured logger for transaction traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers transaction hooks. It may be given more than once.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithScheduler sets the scheduler used by Subscribe.
// Without one, subscribers run synchronously inside Update.
func WithScheduler(scheduler Scheduler) Option {
	return func(c *config) {
		c.scheduler = scheduler
	}
}
