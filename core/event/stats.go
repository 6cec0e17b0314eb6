package event

import "sync/atomic"

// Stats provides cumulative counters of a dispatcher for observability.
type Stats struct {
	Dispatches  uint64 // dispatch calls that found a collection for their identifier
	Invocations uint64 // listener invocations
	Removed     uint64 // slots removed by StopListening or StopListeningAndPropagation
	Purged      uint64 // dead object slots dropped
}

type counters struct {
	dispatches  atomic.Uint64
	invocations atomic.Uint64
	removed     atomic.Uint64
	purged      atomic.Uint64
}

func (c *counters) record(o outcome) {
	c.dispatches.Add(1)
	c.invocations.Add(uint64(o.invoked))
	c.removed.Add(uint64(o.removed))
	c.purged.Add(uint64(o.purged))
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatches:  c.dispatches.Load(),
		Invocations: c.invocations.Load(),
		Removed:     c.removed.Load(),
		Purged:      c.purged.Load(),
	}
}
