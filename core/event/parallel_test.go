package event_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventkit/core/event"
	"github.com/dmitrymomot/eventkit/core/logger"
	"github.com/dmitrymomot/eventkit/pkg/workerpool"
)

func TestParallelDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("invokes each listener exactly once", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		j := &journal{}
		probes := make([]*probe, 8)
		for i := range probes {
			probes[i] = newProbe(fmt.Sprintf("obj-%d", i), j)
			d.AddListener("e", event.Weak[string](probes[i]))
			d.AddFunc("e", record(j, fmt.Sprintf("fn-%d", i), event.Continue))
		}
		other := newProbe("other", j)
		d.AddListener("other", event.Weak[string](other))

		d.Dispatch("e", "x")

		assert.Len(t, j.list(), 16)
		for _, p := range probes {
			assert.Equal(t, int32(1), p.calls.Load(), p.name)
		}
		assert.Zero(t, other.calls.Load())
		runtime.KeepAlive(probes)
	})

	t.Run("unknown identifier is a no-op", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		j := &journal{}
		d.AddFunc("known", record(j, "a", event.Continue))

		d.Dispatch("unknown", "x")

		assert.Empty(t, j.list())
		assert.Zero(t, d.Stats().Dispatches)
	})

	t.Run("listeners run concurrently", func(t *testing.T) {
		t.Parallel()

		const n = 6
		d := event.NewParallelDispatcher[string, string]()

		var barrier sync.WaitGroup
		barrier.Add(n)
		for range n {
			d.AddFunc("e", func(string) event.Signal {
				barrier.Done()
				barrier.Wait()
				return event.Continue
			})
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			d.Dispatch("e", "x")
		}()

		require.Eventually(t, func() bool {
			select {
			case <-done:
				return true
			default:
				return false
			}
		}, 5*time.Second, 5*time.Millisecond)
	})

	t.Run("pool bounds concurrency", func(t *testing.T) {
		t.Parallel()

		pool, err := workerpool.New(2)
		require.NoError(t, err)
		d := event.NewParallelDispatcher[string, string](event.WithPool(pool))
		assert.Equal(t, 2, d.Workers())

		var active, peak atomic.Int32
		listener := func(string) event.Signal {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return event.Continue
		}
		for range 10 {
			d.AddFunc("e", listener)
		}

		d.Dispatch("e", "x")

		assert.LessOrEqual(t, peak.Load(), int32(2))
		assert.Equal(t, uint64(10), d.Stats().Invocations)
	})

	t.Run("stop propagation is ignored", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		j := &journal{}
		d.AddFunc("e", record(j, "a", event.StopPropagation))
		d.AddFunc("e", record(j, "b", event.Continue))
		d.AddFunc("e", record(j, "c", event.StopListeningAndPropagation))

		d.Dispatch("e", "x")

		assert.ElementsMatch(t, []string{"a", "b", "c"}, j.list())
		assert.Equal(t, 2, d.Len("e"))
	})
}

func TestParallelDispatcher_Removal(t *testing.T) {
	t.Parallel()

	t.Run("repeated runs keep the right listener", func(t *testing.T) {
		t.Parallel()

		for run := range 100 {
			d := event.NewParallelDispatcher[string, string]()
			j := &journal{}
			d.AddFunc("e", record(j, "X", event.StopListening))
			d.AddFunc("e", record(j, "Y", event.Continue))

			d.Dispatch("e", "x")
			require.Equal(t, 1, d.Len("e"), "run %d", run)

			j.reset()
			d.Dispatch("e", "x")
			require.Equal(t, []string{"Y"}, j.list(), "run %d", run)
		}
	})

	t.Run("many concurrent removals", func(t *testing.T) {
		t.Parallel()

		pool, err := workerpool.New(4)
		require.NoError(t, err)
		d := event.NewParallelDispatcher[string, string](event.WithPool(pool))
		j := &journal{}

		var keep []string
		for i := range 50 {
			name := fmt.Sprintf("fn-%d", i)
			sig := event.Continue
			if i%2 == 0 {
				sig = event.StopListening
			} else {
				keep = append(keep, name)
			}
			d.AddFunc("e", record(j, name, sig))
		}

		d.Dispatch("e", "x")
		assert.Equal(t, 25, d.Len("e"))
		assert.Equal(t, uint64(25), d.Stats().Removed)

		j.reset()
		d.Dispatch("e", "x")
		assert.ElementsMatch(t, keep, j.list())
	})

	t.Run("objects and callables are removed independently", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		j := &journal{}
		stay := newProbe("stay", j)
		leave := newProbe("leave", j)
		leave.signal = always(event.StopListening)
		d.AddListener("e", event.Weak[string](leave))
		d.AddListener("e", event.Weak[string](stay))
		d.AddFunc("e", record(j, "fn-leave", event.StopListening))
		d.AddFunc("e", record(j, "fn-stay", event.Continue))

		d.Dispatch("e", "x")
		assert.Equal(t, 2, d.Len("e"))

		j.reset()
		d.Dispatch("e", "x")
		assert.ElementsMatch(t, []string{"stay", "fn-stay"}, j.list())
		runtime.KeepAlive(stay)
		runtime.KeepAlive(leave)
	})

	t.Run("collected listener is purged", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		keep := newProbe("keep", nil)
		d.AddListener("e", event.Weak[string](keep))
		gone := transient(func(r event.Ref[event.Listener[string]]) { d.AddListener("e", r) })
		require.Equal(t, 2, d.Len("e"))

		runtime.GC()
		runtime.GC()
		d.Dispatch("e", "x")

		assert.Zero(t, gone.Load())
		assert.Equal(t, int32(1), keep.calls.Load())
		assert.Equal(t, 1, d.Len("e"))
		assert.Equal(t, uint64(1), d.Stats().Purged)
		assert.Zero(t, d.Stats().Removed)
		runtime.KeepAlive(keep)
	})
}

func TestParallelDispatcher_RebuildPool(t *testing.T) {
	t.Parallel()

	t.Run("replaces the pool", func(t *testing.T) {
		t.Parallel()

		d := event.NewParallelDispatcher[string, string]()
		assert.Zero(t, d.Workers())

		require.NoError(t, d.RebuildPool(4))
		assert.Equal(t, 4, d.Workers())
	})

	t.Run("invalid size keeps the previous pool", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		d := event.NewParallelDispatcher[string, string](
			event.WithLogger(logger.New(logger.WithOutput(&buf))),
		)
		require.NoError(t, d.RebuildPool(3))

		for _, size := range []int{0, -1, workerpool.MaxSize + 1} {
			err := d.RebuildPool(size)
			require.Error(t, err)
			assert.ErrorIs(t, err, event.ErrInvalidWorkers)
			assert.ErrorIs(t, err, workerpool.ErrInvalidSize)
			assert.Equal(t, 3, d.Workers())
		}
		assert.Contains(t, buf.String(), "worker pool rebuild rejected")

		j := &journal{}
		d.AddFunc("e", record(j, "a", event.Continue))
		d.Dispatch("e", "x")
		assert.Equal(t, []string{"a"}, j.list())
	})
}

func TestParallelDispatcher_Panic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := event.NewParallelDispatcher[string, string](
		event.WithLogger(logger.New(logger.WithOutput(&buf))),
		event.WithName("billing"),
	)

	var sibling atomic.Int32
	d.AddFunc("e", func(string) event.Signal { panic("boom") })
	d.AddFunc("e", func(string) event.Signal {
		sibling.Add(1)
		return event.StopListening
	})

	assert.PanicsWithValue(t, "boom", func() { d.Dispatch("e", "x") })

	// The other listener finished and its removal was applied.
	assert.Equal(t, int32(1), sibling.Load())
	assert.Equal(t, 1, d.Len("e"))
	assert.Contains(t, buf.String(), "listener panicked")
	assert.Contains(t, buf.String(), "component=billing")

	// The dispatcher stays usable.
	assert.PanicsWithValue(t, "boom", func() { d.Dispatch("e", "x") })
}

func TestParallelDispatcher_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelDebug))
	d := event.NewParallelDispatcher[string, string](event.WithLogger(log))
	d.AddFunc("e", func(string) event.Signal { return event.Continue })

	d.Dispatch("e", "x")

	out := buf.String()
	assert.Contains(t, out, "parallel dispatch started")
	assert.Contains(t, out, "parallel dispatch finished")
	assert.Contains(t, out, "dispatch_id=")
}

func TestNewParallelDispatcherFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("sized pool", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewParallelDispatcherFromConfig[string, string](event.Config{ParallelWorkers: 3, Name: "orders"})
		require.NoError(t, err)
		assert.Equal(t, 3, d.Workers())
	})

	t.Run("zero workers is unbounded", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewParallelDispatcherFromConfig[string, string](event.Config{})
		require.NoError(t, err)
		assert.Zero(t, d.Workers())
	})

	t.Run("explicit pool wins over config", func(t *testing.T) {
		t.Parallel()

		pool, err := workerpool.New(2)
		require.NoError(t, err)

		d, err := event.NewParallelDispatcherFromConfig[string, string](
			event.Config{ParallelWorkers: 6},
			event.WithPool(pool),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, d.Workers())
	})

	t.Run("too many workers", func(t *testing.T) {
		t.Parallel()

		d, err := event.NewParallelDispatcherFromConfig[string, string](event.Config{ParallelWorkers: workerpool.MaxSize + 1})
		require.ErrorIs(t, err, event.ErrInvalidWorkers)
		assert.Nil(t, d)
	})
}

func TestParallelDispatcher_BlockedListenerStallsInstance(t *testing.T) {
	t.Parallel()

	d := event.NewParallelDispatcher[string, string]()
	release := make(chan struct{})
	entered := make(chan struct{})
	d.AddFunc("slow", func(string) event.Signal {
		close(entered)
		<-release
		return event.Continue
	})

	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		d.Dispatch("slow", "x")
	}()
	<-entered

	var lenDone atomic.Bool
	go func() {
		d.Len("other")
		lenDone.Store(true)
	}()

	assert.Never(t, lenDone.Load, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	<-dispatched
	assert.Eventually(t, lenDone.Load, time.Second, 5*time.Millisecond)
}
