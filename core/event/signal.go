package event

// Signal is returned by a listener to steer the dispatch that invoked it.
// The zero value, Continue, keeps the listener and lets dispatch proceed.
type Signal uint8

const (
	// Continue keeps the listener registered and continues dispatch.
	Continue Signal = iota

	// StopListening removes the listener once it returns.
	StopListening

	// StopPropagation skips every listener that has not been visited yet for this
	// dispatch call. The listener stays registered. Only ordered dispatchers
	// (Dispatcher, PriorityDispatcher) honour it.
	StopPropagation

	// StopListeningAndPropagation combines StopListening and StopPropagation.
	StopListeningAndPropagation
)

// String returns the snake_case name of the signal.
func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case StopListening:
		return "stop_listening"
	case StopPropagation:
		return "stop_propagation"
	case StopListeningAndPropagation:
		return "stop_listening_and_propagation"
	default:
		return "unknown"
	}
}

// removes reports whether the signal unregisters the listener that returned it.
func (s Signal) removes() bool {
	return s == StopListening || s == StopListeningAndPropagation
}

// halts reports whether the signal stops propagation.
func (s Signal) halts() bool {
	return s == StopPropagation || s == StopListeningAndPropagation
}
