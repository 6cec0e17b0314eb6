// Package logger provides structured logging utilities built on Go's standard slog package.
//
// It offers a small factory for slog loggers and a set of attribute helpers used by the
// dispatch engines in core/event.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/eventkit/core/logger"
//
//	// Development: text format, debug level
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Info("listener removed",
//		logger.Component("dispatcher"),
//		logger.Event(id),
//	)
//
// Nop returns a logger that discards all output. It is the default logger of every
// dispatcher, so logging costs nothing until a logger is injected.
//
// # Attribute Helpers
//
// Attribute helpers return an empty slog.Attr for nil or empty input, which slog drops,
// so callers never need explicit nil checks:
//
//	log.Error("listener panicked",
//		logger.Panic(recovered),
//		logger.StackTrace(stack),
//		logger.Error(err), // no-op when err is nil
//	)
package logger
