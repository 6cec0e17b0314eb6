// Package event provides an in-process event dispatch engine: a registry mapping
// event identifiers to listeners and four dispatch strategies that invoke them.
//
// # Core Components
//
// Listener is implemented by objects that react to events. They are registered
// through a Ref, a non-owning reference: the dispatcher never keeps a listener
// object alive. Once the object is garbage collected, its slot is dead; it is never
// invoked again and is purged during the next dispatch of its identifier.
//
// ListenerFunc is a standalone callable. The dispatcher owns it, so it leaves only
// when it asks to.
//
// Signal is the value a listener returns to steer dispatch:
//
//   - Continue keeps the listener and continues
//   - StopListening removes the listener
//   - StopPropagation skips all listeners not yet visited for this dispatch call
//   - StopListeningAndPropagation does both
//
// # Dispatchers
//
// Dispatcher runs listeners one after another on the calling goroutine: object
// listeners first, then callables, each group in registration order.
//
// PriorityDispatcher groups listeners in buckets by a priority key and visits the
// buckets in ascending order. A propagation stop ends the whole dispatch, not just
// the current bucket.
//
// ParallelDispatcher invokes all listeners of an identifier concurrently on a
// bounded worker pool and blocks until they are done. RebuildPool changes the pool
// size at runtime; an invalid size is reported and the old pool keeps working.
//
// AsyncDispatcher runs each listener as its own task, receives them in completion
// order and blocks until the last one finished. Go runs a dispatch in the
// background and returns a future.
//
// The concurrent dispatchers only honour the listening part of a signal: listeners
// running at the same time cannot come before or after each other, so there is
// nothing to stop.
//
// # Basic Usage
//
//	type Kind string
//
//	type AuditLog struct{ entries []string }
//
//	func (a *AuditLog) OnEvent(e OrderEvent) event.Signal {
//		a.entries = append(a.entries, e.ID)
//		return event.Continue
//	}
//
//	d := event.NewDispatcher[Kind, OrderEvent](event.WithLogger(logger))
//
//	audit := &AuditLog{}
//	d.AddListener("order.placed", event.Weak[OrderEvent](audit))
//
//	d.AddFunc("order.placed", func(e OrderEvent) event.Signal {
//		sendConfirmation(e)
//		return event.StopListening // only the first order gets one
//	})
//
//	d.Dispatch("order.placed", OrderEvent{ID: "42"})
//
// Identifiers and events are separate type parameters. Two events that should reach
// the same listeners only need to share an identifier; their payloads may differ.
//
// # Removal Order
//
// Removing a listener moves the last listener of the same kind into its slot. This
// keeps removal O(1) but means registration order is not preserved among the
// remaining listeners once any listener stops listening. Priority order between
// buckets is unaffected.
//
// # Application-Owned Listeners
//
// When listeners live in an arena or registry owned by the application, RefFunc
// builds a Ref from a resolver that reports whether a handle is still alive:
//
//	ref := event.RefFunc(func() (event.Listener[OrderEvent], bool) {
//		return arena.Lookup(handle)
//	})
//
// # Failures
//
// Listeners report nothing but a Signal. A panic inside a listener propagates to the
// caller of Dispatch. The concurrent dispatchers first let the other listeners finish
// and apply removals, log the panic with its stack, then re-panic with the original
// value on the dispatching goroutine.
//
// # Concurrency
//
// Dispatcher and PriorityDispatcher are not safe for concurrent use. Listeners may
// dispatch re-entrantly on them. ParallelDispatcher and AsyncDispatcher serialize
// their own calls; listeners must not call back into the dispatcher running them.
//
// # Configuration
//
// LoadConfig reads Config from the environment (EVENT_PARALLEL_WORKERS,
// EVENT_DISPATCHER_NAME) and NewParallelDispatcherFromConfig applies it.
package event
