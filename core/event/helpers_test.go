package event_test

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/eventkit/core/event"
)

// journal records listener invocations in order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(name string) {
	j.mu.Lock()
	j.entries = append(j.entries, name)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.entries)
}

func (j *journal) reset() {
	j.mu.Lock()
	j.entries = nil
	j.mu.Unlock()
}

// probe is an object listener. signal decides the returned Signal from the
// 1-based call number; nil means Continue.
type probe struct {
	name    string
	calls   *atomic.Int32
	journal *journal
	signal  func(call int32) event.Signal
}

func newProbe(name string, j *journal) *probe {
	return &probe{name: name, calls: new(atomic.Int32), journal: j}
}

func (p *probe) OnEvent(string) event.Signal {
	n := p.calls.Add(1)
	if p.journal != nil {
		p.journal.add(p.name)
	}
	if p.signal != nil {
		return p.signal(n)
	}
	return event.Continue
}

// asyncProbe is probe for the async dispatcher.
type asyncProbe struct {
	name  string
	calls *atomic.Int32
}

func (p *asyncProbe) OnEvent(context.Context, string) event.Signal {
	p.calls.Add(1)
	return event.Continue
}

// record returns a callable that logs its name and always returns sig.
func record(j *journal, name string, sig event.Signal) event.ListenerFunc[string] {
	return func(string) event.Signal {
		j.add(name)
		return sig
	}
}

// always returns a signal func that yields sig on every call.
func always(sig event.Signal) func(int32) event.Signal {
	return func(int32) event.Signal { return sig }
}

// onCall returns a signal func that yields sig on call n and Continue otherwise.
func onCall(n int32, sig event.Signal) func(int32) event.Signal {
	return func(call int32) event.Signal {
		if call == n {
			return sig
		}
		return event.Continue
	}
}

// transient registers a listener that nothing else references, so it becomes
// collectable as soon as this function returns. It returns the listener's call counter.
func transient(register func(event.Ref[event.Listener[string]])) *atomic.Int32 {
	calls := new(atomic.Int32)
	register(event.Weak[string](&probe{name: "transient", calls: calls}))
	return calls
}

// transientAsync is transient for async listeners.
func transientAsync(register func(event.Ref[event.AsyncListener[string]])) *atomic.Int32 {
	calls := new(atomic.Int32)
	register(event.WeakAsync[string](&asyncProbe{name: "transient", calls: calls}))
	return calls
}
