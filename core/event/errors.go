package event

import "errors"

var (
	// ErrInvalidWorkers is returned when a worker pool cannot be built for the requested
	// number of workers. The dispatcher keeps its previous pool.
	ErrInvalidWorkers = errors.New("invalid parallel worker count")

	// ErrConfig is returned when dispatcher configuration cannot be loaded.
	ErrConfig = errors.New("failed to load event config")
)
