package workerpool

import "errors"

// ErrInvalidSize is returned when a pool is requested with an unsupported size.
var ErrInvalidSize = errors.New("workerpool: invalid pool size")
