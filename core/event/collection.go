package event

import "slices"

// collection holds every slot registered for one event identifier. Object slots and
// callable slots live in separate slices: object slots can die on their own and are
// purged, callable slots only leave on request.
type collection[L, F any] struct {
	objects []Ref[L]
	funcs   []F
}

func (c *collection[L, F]) len() int {
	return len(c.objects) + len(c.funcs)
}

// purge drops dead object slots, keeping the order of the survivors.
func (c *collection[L, F]) purge() int {
	before := len(c.objects)
	c.objects = slices.DeleteFunc(c.objects, func(r Ref[L]) bool {
		return !r.Alive()
	})
	return before - len(c.objects)
}

// outcome summarizes one pass over a collection.
type outcome struct {
	invoked int
	removed int
	dead    int
	purged  int
	halted  bool
	stop    Signal // signal that halted the pass, if any
}

func (o *outcome) add(other outcome) {
	o.invoked += other.invoked
	o.removed += other.removed
	o.dead += other.dead
	o.purged += other.purged
	if other.halted && !o.halted {
		o.halted, o.stop = true, other.stop
	}
}

// walk visits *seq by index and applies each returned signal immediately.
// Removal swaps the last slot into the current index, so the slot moved there is
// visited next and no live slot is skipped. *seq is updated after every removal so
// the slice stays consistent if a listener panics.
func walk[S any](seq *[]S, visit func(S) Signal) (removed int, halted bool) {
	i := 0
	for i < len(*seq) {
		sig := visit((*seq)[i])
		if sig.removes() {
			*seq = swapRemove(*seq, i)
			removed++
		} else if !sig.halts() {
			i++
		}
		if sig.halts() {
			return removed, true
		}
	}
	return removed, false
}

// swapRemove removes s[i] in O(1) by moving the last element into its place.
// The relative order of the remaining elements is not preserved.
func swapRemove[S any](s []S, i int) []S {
	last := len(s) - 1
	s[i] = s[last]
	var zero S
	s[last] = zero
	return s[:last]
}

// removeIndices swap-removes every index recorded during a concurrent pass.
// Indices are handled from the highest down: every element at or above the index
// being removed is then either that element itself or one that was not recorded,
// so each recorded index still addresses the slot it was recorded for.
func removeIndices[S any](s []S, indices []int) []S {
	if len(indices) == 0 {
		return s
	}
	slices.Sort(indices)
	indices = slices.Compact(indices)
	for _, i := range slices.Backward(indices) {
		s = swapRemove(s, i)
	}
	return s
}
