// Package allocator is the thin facade over heap.Heap exposing three
// free functions (init, allocate, release) over a single process-wide
// arena. It contains no block-management logic of its own.
//
// A cleaner design parameterizes every operation by an explicit arena
// value, so multiple independent arenas can coexist; heap.Heap already
// is that explicit type. This package keeps both: construct a *Heap
// directly for multi-arena use, or use the package-level
// Init/Allocate/Release wrappers below for a single-singleton surface.
package allocator

import (
	"errors"
	"sync"

	"github.com/jmgbessin/MyMalloc/arena"
	"github.com/jmgbessin/MyMalloc/heap"
)

// Heap is a re-export of heap.Heap so callers of this package don't need
// to import the heap package just to hold a reference to one.
type Heap = heap.Heap

// Status is a re-export of heap.Status.
type Status = heap.Status

// ErrNotInitialized is returned by the package-level Allocate wrapper
// when called before Init (Release returns nothing and is a no-op then).
// A Go library boundary has to return something instead of
// dereferencing a nil Heap.
var ErrNotInitialized = errors.New("allocator: Init has not been called")

var (
	mu      sync.Mutex
	process *Heap
)

// Init rounds sizeOfRegion up to a page multiple, acquires the backing
// region, and installs the resulting Heap as the process-wide singleton.
// Returns 0 on success, -1 if region acquisition fails. Calling Init more
// than once replaces the previous singleton; double-init behavior is
// otherwise undefined, and tearing down the old singleton in favor of a
// fresh one is this package's chosen behavior.
func Init(sizeOfRegion int, opts ...arena.Option) int {
	h, err := heap.New(sizeOfRegion, opts...)
	if err != nil {
		return -1
	}
	mu.Lock()
	process = h
	mu.Unlock()
	return 0
}

// Allocate requests a payload of sizeOfPayload bytes from the
// singleton Heap. It returns ErrNotInitialized, without panicking, if
// Init has not yet been called.
func Allocate(sizeOfPayload int) (int, Status, error) {
	mu.Lock()
	h := process
	mu.Unlock()
	if h == nil {
		return heap.None, Status{Success: false, PayloadOffset: -1, Hops: -1}, ErrNotInitialized
	}
	return h.Allocate(sizeOfPayload)
}

// Release returns the block at address to the singleton Heap's free
// list. A no-op for none/out-of-bounds addresses, and also a no-op
// (rather than a panic) when Init was never called.
func Release(address int) {
	mu.Lock()
	h := process
	mu.Unlock()
	if h == nil {
		return
	}
	h.Release(address)
}

// Current returns the process-wide singleton Heap, or nil if Init has
// not been called. Exposed for diag and tests that want to inspect
// singleton state without re-deriving it.
func Current() *Heap {
	mu.Lock()
	defer mu.Unlock()
	return process
}
