package async

import "sync"

// Unordered is a completion set: futures pushed into it are yielded by Next in the
// order they finish, not the order they were pushed.
type Unordered[U any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pushed  int
	pending int
	ready   []completed[U]
}

type completed[U any] struct {
	index  int
	future *Future[U]
}

// NewUnordered creates an empty completion set.
func NewUnordered[U any]() *Unordered[U] {
	u := &Unordered[U]{}
	u.cond = sync.NewCond(&u.mu)
	return u
}

// Push adds a future to the set and returns its push index.
func (u *Unordered[U]) Push(f *Future[U]) int {
	u.mu.Lock()
	idx := u.pushed
	u.pushed++
	u.pending++
	u.mu.Unlock()

	go func() {
		<-f.done
		u.mu.Lock()
		u.ready = append(u.ready, completed[U]{index: idx, future: f})
		u.mu.Unlock()
		u.cond.Signal()
	}()

	return idx
}

// Len returns the number of pushed futures not yet yielded by Next.
func (u *Unordered[U]) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending
}

// Next blocks until the next future completes and returns its push index.
// It returns false once every pushed future has been yielded.
func (u *Unordered[U]) Next() (int, *Future[U], bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.pending == 0 {
		return -1, nil, false
	}
	for len(u.ready) == 0 {
		u.cond.Wait()
	}

	c := u.ready[0]
	u.ready[0] = completed[U]{}
	u.ready = u.ready[1:]
	u.pending--
	return c.index, c.future, true
}

// Drain yields every remaining future to fn in completion order.
func (u *Unordered[U]) Drain(fn func(index int, result U, err error)) {
	for {
		idx, f, ok := u.Next()
		if !ok {
			return
		}
		res, err := f.Await()
		fn(idx, res, err)
	}
}
