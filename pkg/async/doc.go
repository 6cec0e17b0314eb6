// Package async provides utilities for asynchronous programming with Go generics.
//
// This package implements a Future pattern for non-blocking operations with timeout support
// and coordination utilities for managing multiple asynchronous computations.
//
// # Core Types
//
// Future[U] represents the result of an asynchronous computation. It provides methods
// to wait for completion (Await), check status without blocking (IsComplete), and
// handle timeouts (AwaitWithTimeout).
//
// # Usage
//
// Basic asynchronous operation:
//
//	func fetchUser(ctx context.Context, userID int) (User, error) {
//		// Simulate database call
//		time.Sleep(100 * time.Millisecond)
//		return User{ID: userID, Name: "John"}, nil
//	}
//
//	// Execute asynchronously
//	future := async.Async(ctx, 123, fetchUser)
//
//	// Do other work...
//
//	// Wait for result
//	user, err := future.Await()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Using timeout:
//
//	user, err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("Operation timed out")
//	}
//
// # Coordination Utilities
//
// WaitAll waits for all futures to complete and returns their results:
//
//	futures := []*async.Future[User]{
//		async.Async(ctx, 1, fetchUser),
//		async.Async(ctx, 2, fetchUser),
//		async.Async(ctx, 3, fetchUser),
//	}
//
//	users, err := async.WaitAll(futures...)
//	if err != nil {
//		log.Printf("One or more operations failed: %v", err)
//	}
//
// WaitAny returns as soon as any future completes:
//
//	index, user, err := async.WaitAny(futures...)
//	log.Printf("Future %d completed first with result: %+v", index, user)
//
// Unordered is a completion set. Futures pushed into it are yielded in the order
// they finish, which lets a caller react to fast results without waiting on slow ones:
//
//	set := async.NewUnordered[Result]()
//	for _, job := range jobs {
//		set.Push(async.Async(ctx, job, run))
//	}
//	set.Drain(func(index int, res Result, err error) {
//		// index is the push position of the future that just finished
//	})
//
// Exec and ExecFuture are the error-only variants of Async and Future.
//
// # Error Handling
//
// The package defines the following errors:
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when WaitAny is called with no futures
//   - ErrPanic: matched by the *PanicError reported for a function that panicked
//
// Try converts a panic in any function into a *PanicError carrying the recovered
// value and the stack, so it can be re-raised on the goroutine that awaits the result.
//
// # Concurrency Safety
//
// All operations are safe for concurrent use. A Future's result is written once by its
// goroutine before the done channel is closed.
//
// # Performance Considerations
//
// - Futures spawn exactly one goroutine per Async call
// - Unordered (and therefore WaitAny) spawns one watcher goroutine per pushed future
// - Context cancellation is checked before execution to prevent goroutine leaks
//
// # Context Support
//
// All asynchronous operations respect context cancellation. If a context is
// cancelled before the async function begins execution, it returns immediately
// with the context's error.
package async
