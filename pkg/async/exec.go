package async

import "context"

// ExecFuture represents an asynchronous computation that only returns an error.
type ExecFuture struct {
	f *Future[struct{}]
}

// Exec executes a function asynchronously that only returns an error.
func Exec[T any](ctx context.Context, param T, fn func(context.Context, T) error) *ExecFuture {
	return &ExecFuture{
		f: Async(ctx, param, func(ctx context.Context, p T) (struct{}, error) {
			return struct{}{}, fn(ctx, p)
		}),
	}
}

// Await waits for the function to complete and returns its error.
func (e *ExecFuture) Await() error {
	_, err := e.f.Await()
	return err
}

// IsComplete reports whether the function has finished without blocking.
func (e *ExecFuture) IsComplete() bool {
	return e.f.IsComplete()
}

// Done returns a channel that is closed when the function finishes.
func (e *ExecFuture) Done() <-chan struct{} {
	return e.f.Done()
}

// ExecAll waits for all futures to complete and returns the first error in argument order.
func ExecAll(futures ...*ExecFuture) error {
	inner := make([]*Future[struct{}], len(futures))
	for i, e := range futures {
		inner[i] = e.f
	}
	_, err := WaitAll(inner...)
	return err
}

// ExecAny waits for any of the futures to complete and returns its index and error.
func ExecAny(futures ...*ExecFuture) (int, error) {
	inner := make([]*Future[struct{}], len(futures))
	for i, e := range futures {
		inner[i] = e.f
	}
	idx, _, err := WaitAny(inner...)
	return idx, err
}
