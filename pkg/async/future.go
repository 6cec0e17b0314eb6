package async

import (
	"context"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Async executes fn in its own goroutine and returns a Future for its result.
// A panic inside fn is recovered and reported by Await as a *PanicError.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Early exit prevents running work for an already canceled caller
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.err = Try(func() error {
			var err error
			f.result, err = fn(ctx, param)
			return err
		})
	}()

	return f
}

// Await waits for the computation to complete and returns its result.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the computation to complete with a timeout.
// If the timeout occurs first, it returns the zero value and ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the computation finishes.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// WaitAll waits for every future and returns their results in argument order.
// The first error encountered in argument order is returned, after all futures completed.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error
	for i, f := range futures {
		res, err := f.Await()
		results[i] = res
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

// WaitAny returns the index and result of the first future to complete.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	var zero U
	if len(futures) == 0 {
		return -1, zero, ErrNoFutures
	}

	set := NewUnordered[U]()
	for _, f := range futures {
		set.Push(f)
	}
	idx, f, _ := set.Next()
	res, err := f.Await()
	return idx, res, err
}
