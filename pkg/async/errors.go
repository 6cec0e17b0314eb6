package async

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrTimeout is returned by AwaitWithTimeout when the timeout elapses first.
	ErrTimeout = errors.New("async: operation timed out")

	// ErrNoFutures is returned by WaitAny and ExecAny when called without futures.
	ErrNoFutures = errors.New("async: no futures provided")

	// ErrPanic matches any *PanicError with errors.Is.
	ErrPanic = errors.New("async: function panicked")
)

// PanicError carries a value recovered from a panicking function and the stack at the
// point of the panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: function panicked: %v", e.Value)
}

// Is reports whether target is ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// Try calls fn and converts a panic into a *PanicError.
func Try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
