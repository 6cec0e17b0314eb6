package event

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/eventkit/core/logger"
)

type orderedCollection[E any] = collection[Listener[E], ListenerFunc[E]]

// Dispatcher invokes listeners sequentially on the calling goroutine.
//
// For one identifier, object listeners run first in registration order, then
// callable listeners in registration order. A StopPropagation from an object
// listener also skips every callable listener. Removal swaps the last slot of the
// same kind into the removed position, so the order of the remaining listeners
// changes after a listener stops listening.
//
// Propagation covers the whole dispatch call: callables are not a separate pass that
// runs regardless of what the object listeners returned.
//
// Dispatcher is not safe for concurrent use. Listeners may dispatch re-entrantly,
// but registering for or dispatching the identifier currently being dispatched
// changes the pass in progress.
type Dispatcher[K comparable, E any] struct {
	events map[K]*orderedCollection[E]
	opts   options
	stats  counters
}

// NewDispatcher creates a sequential dispatcher.
//
// Example:
//
//	d := event.NewDispatcher[string, OrderPlaced](event.WithLogger(logger))
//	d.AddFunc("order.placed", func(e OrderPlaced) event.Signal {
//	    notify(e)
//	    return event.Continue
//	})
//	d.Dispatch("order.placed", OrderPlaced{ID: "42"})
func NewDispatcher[K comparable, E any](opts ...Option) *Dispatcher[K, E] {
	return &Dispatcher[K, E]{
		events: make(map[K]*orderedCollection[E]),
		opts:   newOptions(opts),
	}
}

// AddListener registers an object listener for id through a non-owning reference.
func (d *Dispatcher[K, E]) AddListener(id K, ref Ref[Listener[E]]) {
	c := d.collection(id)
	c.objects = append(c.objects, ref)
}

// AddFunc registers a callable listener for id. A nil fn is ignored.
func (d *Dispatcher[K, E]) AddFunc(id K, fn ListenerFunc[E]) {
	if fn == nil {
		return
	}
	c := d.collection(id)
	c.funcs = append(c.funcs, fn)
}

// Dispatch invokes every live listener registered for id with event.
func (d *Dispatcher[K, E]) Dispatch(id K, event E) {
	c, ok := d.events[id]
	if !ok {
		return
	}

	out := dispatchOrdered(c, event)
	out.purged = c.purge()
	d.stats.record(out)

	if d.opts.debug(context.Background()) {
		attrs := []any{
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.Count("invoked", out.invoked),
			logger.Count("removed", out.removed),
			logger.Count("purged", out.purged),
			slog.Bool("halted", out.halted),
		}
		if out.halted {
			attrs = append(attrs, logger.Signal(out.stop))
		}
		d.opts.logger.Debug("event dispatched", attrs...)
	}
}

// Len returns the number of slots stored for id, including dead object slots that
// have not been purged yet.
func (d *Dispatcher[K, E]) Len(id K) int {
	if c, ok := d.events[id]; ok {
		return c.len()
	}
	return 0
}

// Clear drops every listener registered for id.
func (d *Dispatcher[K, E]) Clear(id K) {
	delete(d.events, id)
}

// Stats returns cumulative dispatch counters.
func (d *Dispatcher[K, E]) Stats() Stats {
	return d.stats.snapshot()
}

func (d *Dispatcher[K, E]) collection(id K) *orderedCollection[E] {
	c, ok := d.events[id]
	if !ok {
		c = &orderedCollection[E]{}
		d.events[id] = c
	}
	return c
}

// dispatchOrdered runs one sequential pass over c: object slots, then callable
// slots unless propagation was stopped. Dead object slots count as Continue.
func dispatchOrdered[E any](c *orderedCollection[E], event E) outcome {
	var out outcome

	removed, halted := walk(&c.objects, func(r Ref[Listener[E]]) Signal {
		l, ok := r.Get()
		if !ok {
			out.dead++
			return Continue
		}
		out.invoked++
		sig := l.OnEvent(event)
		if sig.halts() {
			out.stop = sig
		}
		return sig
	})
	out.removed += removed
	if halted {
		out.halted = true
		return out
	}

	removed, halted = walk(&c.funcs, func(fn ListenerFunc[E]) Signal {
		out.invoked++
		sig := fn(event)
		if sig.halts() {
			out.stop = sig
		}
		return sig
	})
	out.removed += removed
	out.halted = halted
	return out
}
