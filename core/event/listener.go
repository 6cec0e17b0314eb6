package event

import (
	"context"
	"unsafe"
	"weak"
)

// Listener is implemented by objects that react to dispatched events.
// Objects are registered through a non-owning Ref, so the dispatcher never keeps
// them alive on its own.
type Listener[E any] interface {
	OnEvent(event E) Signal
}

// ListenerFunc is a standalone callable listener. The dispatcher owns it, so it is only
// ever removed by the signal it returns.
type ListenerFunc[E any] func(event E) Signal

// OnEvent calls f(event).
func (f ListenerFunc[E]) OnEvent(event E) Signal {
	return f(event)
}

// AsyncListener is the listener shape used by AsyncDispatcher. The context is the one
// passed to AsyncDispatcher.Dispatch.
type AsyncListener[E any] interface {
	OnEvent(ctx context.Context, event E) Signal
}

// AsyncListenerFunc is a standalone callable for AsyncDispatcher.
type AsyncListenerFunc[E any] func(ctx context.Context, event E) Signal

// OnEvent calls f(ctx, event).
func (f AsyncListenerFunc[E]) OnEvent(ctx context.Context, event E) Signal {
	return f(ctx, event)
}

// Ref is a non-owning reference to a listener of type L.
// A Ref whose referent is gone is dead: dispatchers never invoke it and drop it
// from their registry during the next dispatch of its identifier.
type Ref[L any] struct {
	resolve func() (L, bool)
}

// Weak returns a Ref that does not keep l reachable. Once every other reference to
// l is dropped and the garbage collector reclaims it, the Ref becomes dead.
//
// l must point to a heap allocation, such as one made by new or a composite literal
// that escapes. Pointers to package-level variables cannot be tracked weakly; register
// static listeners with RefFunc instead. A zero-size listener has nothing to collect,
// so its Ref holds it and stays alive.
//
//	l := &AuditLog{}
//	d.AddListener(UserCreated, event.Weak[Event](l))
func Weak[E any, T any, P interface {
	*T
	Listener[E]
}](l P) Ref[Listener[E]] {
	return weakRef((*T)(l), func(v *T) Listener[E] { return P(v) })
}

// WeakAsync is Weak for AsyncListener implementations. The same allocation rules apply.
func WeakAsync[E any, T any, P interface {
	*T
	AsyncListener[E]
}](l P) Ref[AsyncListener[E]] {
	return weakRef((*T)(l), func(v *T) AsyncListener[E] { return P(v) })
}

// weakRef builds a Ref over p. Zero-size values share one runtime address and cannot
// be tracked weakly, so they are held strongly.
func weakRef[L, T any](p *T, as func(*T) L) Ref[L] {
	if p != nil && unsafe.Sizeof(*p) == 0 {
		return Ref[L]{resolve: func() (L, bool) { return as(p), true }}
	}

	wp := weak.Make(p)
	return Ref[L]{resolve: func() (L, bool) {
		v := wp.Value()
		if v == nil {
			var zero L
			return zero, false
		}
		return as(v), true
	}}
}

// RefFunc builds a Ref from a resolver owned by the application, for example a
// handle into an arena that knows which of its entries are still alive. resolve
// must report false once the listener is gone and must be safe for concurrent use
// when the Ref is registered with a concurrent dispatcher.
func RefFunc[L any](resolve func() (L, bool)) Ref[L] {
	return Ref[L]{resolve: resolve}
}

// Get returns the referenced listener and whether it is still alive.
func (r Ref[L]) Get() (L, bool) {
	if r.resolve == nil {
		var zero L
		return zero, false
	}
	return r.resolve()
}

// Alive reports whether the referenced listener still exists.
func (r Ref[L]) Alive() bool {
	_, ok := r.Get()
	return ok
}
