// Package eventkit provides an in-process event dispatch engine: listeners register
// for event identifiers and are invoked when an event with that identifier is
// dispatched, sequentially, by priority, on a worker pool, or as concurrent tasks.
//
// # Package Organization
//
// The module is organized into two categories:
//
//   - Core: the dispatch engine and the ambient pieces it is built with
//   - Utilities: standalone concurrency primitives used by the concurrent dispatchers
//
// # Getting Documentation
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/dmitrymomot/eventkit/core/event
//	go doc -all github.com/dmitrymomot/eventkit/pkg/async
//
// # Core Packages
//
//	github.com/dmitrymomot/eventkit/core/event   - Listener registry and the four dispatch engines
//	github.com/dmitrymomot/eventkit/core/logger  - Structured logging built on slog
//	github.com/dmitrymomot/eventkit/core/config  - Type-safe environment variable loading
//
// # Utility Packages
//
//	github.com/dmitrymomot/eventkit/pkg/async      - Futures and completion-order sets
//	github.com/dmitrymomot/eventkit/pkg/workerpool - Bounded fork/join fan-out
//
// # Quick Start
//
//	type Kind string
//
//	type Counter struct{ n int }
//
//	func (c *Counter) OnEvent(e Order) event.Signal {
//		c.n++
//		return event.Continue
//	}
//
//	func main() {
//		log := logger.New(logger.WithDevelopment("shop"))
//
//		d := event.NewDispatcher[Kind, Order](event.WithLogger(log))
//
//		counter := &Counter{}
//		d.AddListener("order.placed", event.Weak[Order](counter))
//
//		d.AddFunc("order.placed", func(e Order) event.Signal {
//			fmt.Println("first order:", e.ID)
//			return event.StopListening
//		})
//
//		d.Dispatch("order.placed", Order{ID: "1"})
//		d.Dispatch("order.placed", Order{ID: "2"})
//	}
//
// The parallel dispatcher reads its pool size from the environment:
//
//	cfg, err := event.LoadConfig()
//	if err != nil {
//		log.Error("config", logger.Error(err))
//		os.Exit(1)
//	}
//	pd, err := event.NewParallelDispatcherFromConfig[Kind, Order](cfg, event.WithLogger(log))
//
// For complete examples and detailed usage instructions, refer to the individual
// package documentation using the go doc command.
package eventkit
