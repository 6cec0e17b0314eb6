package workerpool

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MaxSize is the largest pool size New accepts.
const MaxSize = 1 << 16

// Pool bounds how many tasks run at the same time. The bound is shared by every
// Run call on the same pool, so concurrent fan-outs compete for the same slots.
//
// A nil *Pool is valid and runs every task on its own goroutine.
type Pool struct {
	size int
	sem  *semaphore.Weighted
}

// New creates a pool that runs at most size tasks at once.
func New(size int) (*Pool, error) {
	if size < 1 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidSize, size, MaxSize)
	}
	return &Pool{
		size: size,
		sem:  semaphore.NewWeighted(int64(size)),
	}, nil
}

// Size returns the pool size, or 0 for a nil (unbounded) pool.
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.size
}

// Run calls fn(i) for every i in [0, n) concurrently and waits for all calls to
// return. It returns the first non-nil error in completion order; a failing call
// does not cancel its siblings.
func (p *Pool) Run(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	var g errgroup.Group
	for i := range n {
		if p != nil {
			// Acquire with a background context never fails.
			_ = p.sem.Acquire(context.Background(), 1)
		}
		g.Go(func() error {
			if p != nil {
				defer p.sem.Release(1)
			}
			return fn(i)
		})
	}
	return g.Wait()
}

// Join runs every task concurrently on dedicated goroutines, outside the pool bound,
// and waits for all of them. It returns the first non-nil error.
func Join(tasks ...func() error) error {
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(task)
	}
	return g.Wait()
}
