package event

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/eventkit/core/logger"
)

// bucket holds the listeners sharing one priority key.
type bucket[P cmp.Ordered, E any] struct {
	priority  P
	listeners orderedCollection[E]
}

// PriorityDispatcher invokes listeners sequentially, bucket by bucket in ascending
// priority order. Inside a bucket it behaves like Dispatcher.
//
// StopPropagation ends the whole dispatch: no later listener of the same bucket and
// no later bucket is visited. StopListening only affects the bucket of the listener
// that returned it. Priority keys must be totally ordered; NaN float keys are not.
//
// PriorityDispatcher is not safe for concurrent use.
type PriorityDispatcher[P cmp.Ordered, K comparable, E any] struct {
	events map[K][]*bucket[P, E]
	opts   options
	stats  counters
}

// NewPriorityDispatcher creates a priority-ordered dispatcher.
//
// Example:
//
//	d := event.NewPriorityDispatcher[int, string, Request]()
//	d.AddFunc("request", authorize, 0) // runs first, may stop propagation
//	d.AddFunc("request", handle, 10)
func NewPriorityDispatcher[P cmp.Ordered, K comparable, E any](opts ...Option) *PriorityDispatcher[P, K, E] {
	return &PriorityDispatcher[P, K, E]{
		events: make(map[K][]*bucket[P, E]),
		opts:   newOptions(opts),
	}
}

// AddListener registers an object listener for id at the given priority.
func (d *PriorityDispatcher[P, K, E]) AddListener(id K, ref Ref[Listener[E]], priority P) {
	b := d.bucketFor(id, priority)
	b.listeners.objects = append(b.listeners.objects, ref)
}

// AddFunc registers a callable listener for id at the given priority. A nil fn is ignored.
func (d *PriorityDispatcher[P, K, E]) AddFunc(id K, fn ListenerFunc[E], priority P) {
	if fn == nil {
		return
	}
	b := d.bucketFor(id, priority)
	b.listeners.funcs = append(b.listeners.funcs, fn)
}

// Dispatch invokes the listeners registered for id, lowest priority first.
func (d *PriorityDispatcher[P, K, E]) Dispatch(id K, event E) {
	buckets, ok := d.events[id]
	if !ok {
		return
	}

	var (
		total   outcome
		stopped = len(buckets)
		stopKey P
	)
	for i, b := range buckets {
		out := dispatchOrdered(&b.listeners, event)
		total.add(out)
		if out.halted {
			stopped, stopKey = i, b.priority
			break
		}
	}

	// Dead slots go away in every bucket, visited or not.
	for _, b := range buckets {
		total.purged += b.listeners.purge()
	}
	d.stats.record(total)

	if d.opts.debug(context.Background()) {
		attrs := []any{
			logger.Component(d.opts.name),
			logger.Event(id),
			logger.Count("buckets", len(buckets)),
			logger.Count("invoked", total.invoked),
			logger.Count("removed", total.removed),
			logger.Count("purged", total.purged),
			slog.Bool("halted", total.halted),
		}
		if total.halted {
			attrs = append(attrs,
				logger.Priority(stopKey),
				logger.Count("stopped_at_bucket", stopped),
				logger.Signal(total.stop))
		}
		d.opts.logger.Debug("event dispatched", attrs...)
	}
}

// Len returns the number of slots stored for id across all priorities.
func (d *PriorityDispatcher[P, K, E]) Len(id K) int {
	n := 0
	for _, b := range d.events[id] {
		n += b.listeners.len()
	}
	return n
}

// Priorities returns the priority keys that have a bucket for id, in dispatch order.
func (d *PriorityDispatcher[P, K, E]) Priorities(id K) []P {
	buckets := d.events[id]
	keys := make([]P, 0, len(buckets))
	for _, b := range buckets {
		keys = append(keys, b.priority)
	}
	return keys
}

// Clear drops every listener registered for id.
func (d *PriorityDispatcher[P, K, E]) Clear(id K) {
	delete(d.events, id)
}

// Stats returns cumulative dispatch counters.
func (d *PriorityDispatcher[P, K, E]) Stats() Stats {
	return d.stats.snapshot()
}

// bucketFor returns the bucket for priority under id, inserting it in sorted position
// when absent.
func (d *PriorityDispatcher[P, K, E]) bucketFor(id K, priority P) *bucket[P, E] {
	buckets := d.events[id]
	i, found := slices.BinarySearchFunc(buckets, priority, func(b *bucket[P, E], p P) int {
		return cmp.Compare(b.priority, p)
	})
	if found {
		return buckets[i]
	}

	b := &bucket[P, E]{priority: priority}
	d.events[id] = slices.Insert(buckets, i, b)
	return b
}
