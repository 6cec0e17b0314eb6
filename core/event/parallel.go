package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eventkit/core/logger"
	"github.com/dmitrymomot/eventkit/pkg/async"
	"github.com/dmitrymomot/eventkit/pkg/workerpool"
)

// ParallelDispatcher invokes all listeners of an identifier concurrently and
// returns once every invocation has finished.
//
// Object listeners and callable listeners run as two concurrent groups, each fanning
// out over a worker pool (see WithPool and RebuildPool). Listeners run in no
// particular order, so only the listening part of a signal is honoured:
// StopPropagation is treated as Continue and StopListeningAndPropagation as
// StopListening. Removals are applied after the fan-out completes.
//
// ParallelDispatcher is safe for concurrent use; dispatch and registration calls are
// serialized on one lock that Dispatch holds until every listener has returned. A
// listener that blocks therefore stalls every other call on the instance, for any
// identifier. Listeners must not call back into the dispatcher that invokes them.
type ParallelDispatcher[K comparable, E any] struct {
	mu     sync.Mutex
	events map[K]*orderedCollection[E]
	pool   *workerpool.Pool
	opts   options
	stats  counters
}

// NewParallelDispatcher creates a parallel dispatcher.
func NewParallelDispatcher[K comparable, E any](opts ...Option) *ParallelDispatcher[K, E] {
	o := newOptions(opts)
	return &ParallelDispatcher[K, E]{
		events: make(map[K]*orderedCollection[E]),
		pool:   o.pool,
		opts:   o,
	}
}

// NewParallelDispatcherFromConfig creates a parallel dispatcher sized by cfg.
// Explicit opts are applied after the options derived from cfg and take precedence:
// a pool passed with WithPool is kept and cfg.ParallelWorkers is ignored.
func NewParallelDispatcherFromConfig[K comparable, E any](cfg Config, opts ...Option) (*ParallelDispatcher[K, E], error) {
	d := NewParallelDispatcher[K, E](append(cfg.Options(), opts...)...)
	if cfg.ParallelWorkers > 0 && d.opts.pool == nil {
		if err := d.RebuildPool(cfg.ParallelWorkers); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// RebuildPool replaces the worker pool with one of the given size. On failure the
// error wraps ErrInvalidWorkers and the previous pool stays in use.
func (d *ParallelDispatcher[K, E]) RebuildPool(workers int) error {
	pool, err := workerpool.New(workers)
	if err != nil {
		d.opts.logger.Warn("worker pool rebuild rejected",
			logger.Component(d.opts.name),
			logger.Workers(workers),
			logger.Error(err))
		return fmt.Errorf("%w: %w", ErrInvalidWorkers, err)
	}

	d.mu.Lock()
	d.pool = pool
	d.mu.Unlock()

	d.opts.logger.Info("worker pool rebuilt",
		logger.Component(d.opts.name),
		logger.Workers(workers))
	return nil
}

// Workers returns the current pool size, or 0 when every listener gets its own goroutine.
func (d *ParallelDispatcher[K, E]) Workers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool.Size()
}

// AddListener registers an object listener for id through a non-owning reference.
func (d *ParallelDispatcher[K, E]) AddListener(id K, ref Ref[Listener[E]]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(id)
	c.objects = append(c.objects, ref)
}

// AddFunc registers a callable listener for id. A nil fn is ignored.
func (d *ParallelDispatcher[K, E]) AddFunc(id K, fn ListenerFunc[E]) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(id)
	c.funcs = append(c.funcs, fn)
}

// Dispatch invokes every live listener registered for id concurrently and blocks
// until all of them have returned. A panic in a listener is re-raised on the
// calling goroutine after the other listeners finished and removals were applied.
func (d *ParallelDispatcher[K, E]) Dispatch(id K, event E) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.events[id]
	if !ok {
		return
	}

	ctx := context.Background()
	var dispatchID string
	if d.opts.debug(ctx) {
		dispatchID = uuid.NewString()
		d.opts.logger.Debug("parallel dispatch started",
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.DispatchID(dispatchID),
			logger.Count("listeners", c.len()),
			logger.Workers(d.pool.Size()))
	}

	var (
		mu            sync.Mutex // guards the removal lists; held for one append only
		objectIndices []int
		funcIndices   []int
		invoked       atomic.Int64
		dead          atomic.Int64
	)
	record := func(dst *[]int, i int) {
		mu.Lock()
		*dst = append(*dst, i)
		mu.Unlock()
	}

	objects, funcs := c.objects, c.funcs
	err := workerpool.Join(
		func() error {
			return d.pool.Run(len(objects), func(i int) error {
				return async.Try(func() error {
					l, ok := objects[i].Get()
					if !ok {
						dead.Add(1)
						record(&objectIndices, i)
						return nil
					}
					invoked.Add(1)
					if l.OnEvent(event).removes() {
						record(&objectIndices, i)
					}
					return nil
				})
			})
		},
		func() error {
			return d.pool.Run(len(funcs), func(i int) error {
				return async.Try(func() error {
					invoked.Add(1)
					if funcs[i](event).removes() {
						record(&funcIndices, i)
					}
					return nil
				})
			})
		},
	)

	c.objects = removeIndices(c.objects, objectIndices)
	c.funcs = removeIndices(c.funcs, funcIndices)

	out := outcome{
		invoked: int(invoked.Load()),
		removed: len(objectIndices) + len(funcIndices) - int(dead.Load()),
		dead:    int(dead.Load()),
	}
	out.purged = out.dead + c.purge()
	d.stats.record(out)

	if dispatchID != "" {
		d.opts.logger.Debug("parallel dispatch finished",
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.DispatchID(dispatchID),
			logger.Count("invoked", out.invoked),
			logger.Count("removed", out.removed),
			logger.Count("purged", out.purged))
	}

	rethrow(ctx, d.opts, id, err)
}

// Len returns the number of slots stored for id.
func (d *ParallelDispatcher[K, E]) Len(id K) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.events[id]; ok {
		return c.len()
	}
	return 0
}

// Clear drops every listener registered for id.
func (d *ParallelDispatcher[K, E]) Clear(id K) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.events, id)
}

// Stats returns cumulative dispatch counters.
func (d *ParallelDispatcher[K, E]) Stats() Stats {
	return d.stats.snapshot()
}

func (d *ParallelDispatcher[K, E]) collection(id K) *orderedCollection[E] {
	c, ok := d.events[id]
	if !ok {
		c = &orderedCollection[E]{}
		d.events[id] = c
	}
	return c
}

// rethrow logs a listener panic captured during a concurrent dispatch and re-raises
// it with its original value on the calling goroutine.
func rethrow(ctx context.Context, o options, id any, err error) {
	if err == nil {
		return
	}
	var pe *async.PanicError
	if !errors.As(err, &pe) {
		panic(err)
	}
	o.logger.ErrorContext(ctx, "listener panicked",
		logger.Component(o.name),
		logger.Event(id),
		logger.Panic(pe.Value),
		logger.StackTrace(pe.Stack))
	panic(pe.Value)
}
