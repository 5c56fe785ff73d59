package heap

import (
	"unsafe"

	"github.com/jmgbessin/MyMalloc/arena"
)

// headerSize is the fixed width of every block header: size(4) +
// allocated(4) + next(8) + prev(8).
const headerSize = 24

// none is re-exported from arena so the rest of this package can talk
// about "no block" without importing arena at every call site.
const none = arena.None

// All access to header bytes is confined to the functions in this file:
// each field is read or written through exactly one unsafe.Add+cast
// site. Everything in heap.go/release.go calls these instead of
// touching arena.Ptr directly.

func sizeOf(a *arena.Arena, offset int) int {
	return int(*(*uint32)(a.Ptr(offset)))
}

func setSize(a *arena.Arena, offset, size int) {
	*(*uint32)(a.Ptr(offset)) = uint32(size)
}

func allocatedOf(a *arena.Arena, offset int) bool {
	return *(*uint32)(a.Ptr(offset + 4)) != 0
}

func setAllocated(a *arena.Arena, offset int, v bool) {
	var n uint32
	if v {
		n = 1
	}
	*(*uint32)(a.Ptr(offset + 4)) = n
}

func nextOf(a *arena.Arena, offset int) int {
	return int(*(*int64)(a.Ptr(offset + 8)))
}

func setNext(a *arena.Arena, offset, v int) {
	*(*int64)(a.Ptr(offset + 8)) = int64(v)
}

func prevOf(a *arena.Arena, offset int) int {
	return int(*(*int64)(a.Ptr(offset + 16)))
}

func setPrev(a *arena.Arena, offset, v int) {
	*(*int64)(a.Ptr(offset + 16)) = int64(v)
}

// payloadBytes returns a slice view over a block's payload area, used by
// Heap.Payload so callers can read/write an allocated block's contents
// through the offset API instead of a raw unsafe.Pointer.
func payloadBytes(a *arena.Arena, blockOffset int) []byte {
	size := sizeOf(a, blockOffset)
	return unsafe.Slice((*byte)(a.Ptr(blockOffset+headerSize)), size-headerSize)
}

func roundUp8(n int) int {
	if r := n % 8; r != 0 {
		n += 8 - r
	}
	return n
}
