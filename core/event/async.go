package event

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/eventkit/core/logger"
	"github.com/dmitrymomot/eventkit/pkg/async"
)

type asyncCollection[E any] = collection[AsyncListener[E], AsyncListenerFunc[E]]

// asyncResult is what one listener task reports back to the dispatch call.
type asyncResult struct {
	invoked bool
	remove  bool
}

// AsyncDispatcher runs every listener of an identifier as its own task and collects
// the tasks in the order they finish.
//
// It shares ParallelDispatcher's removal policy: only the listening part of a signal
// is honoured and removals are applied once every task has finished.
//
// AsyncDispatcher is safe for concurrent use; dispatch and registration calls are
// serialized on one lock that Dispatch holds until every task has finished. A listener
// that blocks therefore stalls every other call on the instance, for any identifier,
// including Len and AddListener. Listeners must not call back into the dispatcher
// that invokes them.
type AsyncDispatcher[K comparable, E any] struct {
	mu     sync.Mutex
	events map[K]*asyncCollection[E]
	opts   options
	stats  counters
}

// NewAsyncDispatcher creates an async dispatcher.
func NewAsyncDispatcher[K comparable, E any](opts ...Option) *AsyncDispatcher[K, E] {
	return &AsyncDispatcher[K, E]{
		events: make(map[K]*asyncCollection[E]),
		opts:   newOptions(opts),
	}
}

// AddListener registers an object listener for id through a non-owning reference.
func (d *AsyncDispatcher[K, E]) AddListener(id K, ref Ref[AsyncListener[E]]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(id)
	c.objects = append(c.objects, ref)
}

// AddFunc registers a callable listener for id. A nil fn is ignored.
func (d *AsyncDispatcher[K, E]) AddFunc(id K, fn AsyncListenerFunc[E]) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.collection(id)
	c.funcs = append(c.funcs, fn)
}

// Dispatch starts one task per live listener registered for id and blocks until
// every task has finished, then applies removals.
//
// ctx is handed to the listeners unchanged. Dispatch itself never abandons a
// listener: a canceled ctx is only a hint for listeners that watch it. A panic in a
// listener is re-raised on the calling goroutine after all tasks finished.
func (d *AsyncDispatcher[K, E]) Dispatch(ctx context.Context, id K, event E) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.events[id]
	if !ok {
		return
	}

	var dispatchID string
	if d.opts.debug(ctx) {
		dispatchID = uuid.NewString()
		d.opts.logger.DebugContext(ctx, "async dispatch started",
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.DispatchID(dispatchID),
			logger.Count("listeners", c.len()))
	}

	// Tasks must start even when ctx is already canceled.
	spawnCtx := context.WithoutCancel(ctx)
	set := async.NewUnordered[asyncResult]()

	objects, funcs := c.objects, c.funcs
	for _, ref := range objects {
		set.Push(async.Async(spawnCtx, ref, func(_ context.Context, ref Ref[AsyncListener[E]]) (asyncResult, error) {
			l, ok := ref.Get()
			if !ok {
				return asyncResult{remove: true}, nil
			}
			return asyncResult{invoked: true, remove: l.OnEvent(ctx, event).removes()}, nil
		}))
	}
	for _, fn := range funcs {
		set.Push(async.Async(spawnCtx, fn, func(_ context.Context, fn AsyncListenerFunc[E]) (asyncResult, error) {
			return asyncResult{invoked: true, remove: fn(ctx, event).removes()}, nil
		}))
	}

	var (
		out           outcome
		objectIndices []int
		funcIndices   []int
		firstErr      error
	)
	// Drain runs on this goroutine only, so the removal lists need no lock.
	set.Drain(func(index int, res asyncResult, err error) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if res.invoked {
			out.invoked++
		}
		if !res.remove {
			return
		}
		if index < len(objects) {
			objectIndices = append(objectIndices, index)
			if !res.invoked {
				out.dead++
			} else {
				out.removed++
			}
			return
		}
		funcIndices = append(funcIndices, index-len(objects))
		out.removed++
	})

	c.objects = removeIndices(c.objects, objectIndices)
	c.funcs = removeIndices(c.funcs, funcIndices)
	out.purged = out.dead + c.purge()
	d.stats.record(out)

	if dispatchID != "" {
		d.opts.logger.DebugContext(ctx, "async dispatch finished",
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.DispatchID(dispatchID),
			logger.Count("invoked", out.invoked),
			logger.Count("removed", out.removed),
			logger.Count("purged", out.purged))
	}

	rethrow(ctx, d.opts, id, firstErr)
}

// Go runs Dispatch in the background and returns a future that completes when the
// dispatch has finished. A listener panic surfaces from Await as an error matching
// async.ErrPanic. If ctx is canceled before the dispatch starts, nothing runs and
// Await returns ctx.Err().
func (d *AsyncDispatcher[K, E]) Go(ctx context.Context, id K, event E) *async.ExecFuture {
	return async.Exec(ctx, id, func(ctx context.Context, id K) error {
		d.Dispatch(ctx, id, event)
		return nil
	})
}

// Len returns the number of slots stored for id.
func (d *AsyncDispatcher[K, E]) Len(id K) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.events[id]; ok {
		return c.len()
	}
	return 0
}

// Clear drops every listener registered for id.
func (d *AsyncDispatcher[K, E]) Clear(id K) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.events, id)
}

// Stats returns cumulative dispatch counters.
func (d *AsyncDispatcher[K, E]) Stats() Stats {
	return d.stats.snapshot()
}

func (d *AsyncDispatcher[K, E]) collection(id K) *asyncCollection[E] {
	c, ok := d.events[id]
	if !ok {
		c = &asyncCollection[E]{}
		d.events[id] = c
	}
	return c
}
