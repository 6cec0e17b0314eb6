package event

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/eventkit/core/logger"
	"github.com/dmitrymomot/eventkit/pkg/workerpool"
)

// Option configures a dispatcher.
type Option func(*options)

type options struct {
	logger *slog.Logger
	name   string
	pool   *workerpool.Pool
}

func newOptions(opts []Option) options {
	o := options{
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger configures structured logging for dispatch operations.
// Dispatch details are logged at debug level; recovered listener panics at error level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName sets the component name attached to every log record of the dispatcher.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithPool sets the worker pool a ParallelDispatcher fans out on.
// Without it every listener runs on its own goroutine. Other dispatchers ignore it.
//
// Example:
//
//	pool, err := workerpool.New(runtime.GOMAXPROCS(0))
//	if err != nil {
//	    return err
//	}
//	d := event.NewParallelDispatcher[string, Event](event.WithPool(pool))
func WithPool(p *workerpool.Pool) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

func (o *options) debug(ctx context.Context) bool {
	return o.logger.Enabled(ctx, slog.LevelDebug)
}
