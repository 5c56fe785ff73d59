package heap

import "errors"

// ErrBadArgument is returned when Allocate is called with a negative
// requested payload size.
var ErrBadArgument = errors.New("heap: requested payload size is negative")

// ErrOutOfSpace is returned when no free block in the arena can satisfy
// the request, either because none is large enough or the arena has no
// free block at all.
var ErrOutOfSpace = errors.New("heap: no free block satisfies the request")
