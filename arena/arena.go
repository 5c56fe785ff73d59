// Package arena owns the single fixed-size contiguous memory region the
// allocator sub-allocates from. It has no notion of blocks, free lists, or
// payloads — that is the heap package's job. Arena only ever hands out a
// raw pointer-into-region plus the region's length, and tracks the
// address (here: byte offset from the region's first byte) of the
// lowest-addressed free block on behalf of the heap package.
package arena

import (
	"errors"
	"unsafe"
)

// PageSize is the unit every region size is rounded up to, matching the
// fixed 4096-byte page size the allocator is specified against.
const PageSize = 4096

// None is the sentinel offset meaning "no block" — used for free_head
// when the arena is fully allocated, and for a free block's next/prev
// links at the ends of the list.
const None = -1

// ErrBackendFailure is returned by New when the configured Backend could
// not acquire a region of the requested size.
var ErrBackendFailure = errors.New("arena: backend failed to acquire region")

// Backend acquires a byte region from some memory source. It is the
// external collaborator the allocator spec deliberately leaves
// unspecified ("acquisition of the backing region from the OS ... choice
// of syscall interface"); see MmapBackend and PooledBackend.
type Backend interface {
	// Acquire returns a []byte of at least size bytes, or an error.
	Acquire(size int) ([]byte, error)
}

// Arena is the process-wide region state: base, length, and free_head.
// It is created once by New and is never resized or
// destroyed over the allocator's lifetime; heap.Heap mutates freeHead
// through SetFreeHead as it splits, absorbs, and coalesces blocks.
type Arena struct {
	region   []byte
	base     unsafe.Pointer
	length   int
	freeHead int
}

// New rounds requestedSize up to the next multiple of pageSize (always
// 4096 outside this package's own tests), acquires a region of that
// size from the configured Backend (MmapBackend by default, see
// WithBackend), and returns an Arena over it with freeHead set to None.
//
// New does not write any block header into the region — it only owns
// the raw bytes. The caller (heap.New) is responsible for writing the
// initial single free-block header and calling SetFreeHead(0), since the
// header layout is heap's concern, not arena's. New does not zero the
// region either: its bytes are whatever the Backend returned.
func New(requestedSize int, opts ...Option) (*Arena, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	size := roundUpPage(requestedSize, cfg.pageSize)
	region, err := cfg.backend.Acquire(size)
	if err != nil || len(region) < size {
		return nil, ErrBackendFailure
	}
	region = region[:size]

	return &Arena{
		region:   region,
		base:     unsafe.Pointer(&region[0]),
		length:   size,
		freeHead: None,
	}, nil
}

// Length returns the total region size in bytes (a multiple of the
// configured page size).
func (a *Arena) Length() int { return a.length }

// FreeHead returns the offset of the lowest-addressed free block, or
// None if the arena is fully allocated.
func (a *Arena) FreeHead() int { return a.freeHead }

// SetFreeHead updates the free-list head offset.
func (a *Arena) SetFreeHead(offset int) { a.freeHead = offset }

// Ptr returns an unsafe.Pointer to the byte at the given offset from the
// arena's base. Offset is trusted: callers (heap's header accessors) are
// the only code allowed to dereference the result, confining all raw
// memory access to that one small set of functions.
func (a *Arena) Ptr(offset int) unsafe.Pointer {
	return unsafe.Add(a.base, offset)
}

// Bytes exposes the whole backing region, read-only in intent (callers
// should go through heap's accessors to mutate it). diag uses this to
// render the region for debug logging without copying.
func (a *Arena) Bytes() []byte { return a.region }

func roundUpPage(n, page int) int {
	if n <= 0 {
		return page
	}
	if r := n % page; r != 0 {
		n += page - r
	}
	return n
}
