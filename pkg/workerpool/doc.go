// Package workerpool provides a bounded fork/join executor.
//
// A Pool limits how many tasks run at once across all fan-outs that share it.
// Run blocks until every task has returned, so from the caller's point of view
// a fan-out is synchronous even though the work executes on other goroutines:
//
//	pool, err := workerpool.New(4)
//	if err != nil {
//		return err // errors.Is(err, workerpool.ErrInvalidSize)
//	}
//
//	err = pool.Run(len(items), func(i int) error {
//		return process(items[i])
//	})
//
// A nil *Pool is usable and runs each task on its own goroutine.
//
// Tasks must not call Run on the pool that is executing them: when all slots are
// held by tasks waiting on nested work, the nested work can never start.
package workerpool
