// Package diag provides read-only structural verification and
// checksumming over a heap.Heap, supplementing the core Allocate/
// Release operations with the kind of consistency-auditing surface a
// production allocator library ships alongside them. Walk checks every
// invariant the core block manager must maintain; Checksum is a digest
// of the block layout (each block's offset, size and allocated flag),
// useful in tests that want to assert an operation left the layout
// unchanged.
package diag

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bytedance/gopkg/util/xxhash3"

	"github.com/jmgbessin/MyMalloc/allocator"
	"github.com/jmgbessin/MyMalloc/heap"
	"github.com/jmgbessin/MyMalloc/internal/hack"
)

// Stats summarizes one Walk of a heap's block list.
type Stats struct {
	TotalBlocks     int
	FreeBlocks      int
	AllocatedBlocks int
	FreeBytes       int
	AllocatedBytes  int
}

var (
	ErrUndersizedBlock    = errors.New("diag: block smaller than header size")
	ErrMisalignedSize     = errors.New("diag: block size is not a multiple of 8")
	ErrOverrun            = errors.New("diag: block extends past end of arena")
	ErrTilingMismatch     = errors.New("diag: blocks do not exactly tile the arena")
	ErrAdjacentFreeBlocks = errors.New("diag: two adjacent blocks are both free")
	ErrFreeListBroken     = errors.New("diag: free list pointers are inconsistent")
	ErrFreeListOrder      = errors.New("diag: free list is not address-ordered")
)

// Walk traverses every block in h in address order, offset 0 through
// Length, verifying:
//
//   - every block's size is at least the header size and a multiple of
//     8, and no block extends past the end of the arena;
//   - blocks tile the arena exactly — no gaps, no overlaps;
//   - no two adjacent blocks are both free (coalescing is eager and
//     complete);
//   - the free list, followed from FreeHead via Next, visits blocks in
//     strictly increasing offset order, with mutually consistent
//     Prev/Next pointers, and visits every free block in the arena.
//
// It returns the first violation encountered as an error, wrapped so
// callers can errors.Is against the sentinels above. A nil error means
// h's block list and free list are both structurally sound.
func Walk(h *allocator.Heap) (Stats, error) {
	var st Stats
	length := h.Length()

	offset := 0
	prevFree := false
	for offset < length {
		blk := h.BlockAt(offset)

		if blk.Size < 24 {
			return st, fmt.Errorf("%w: block at %d has size %d", ErrUndersizedBlock, offset, blk.Size)
		}
		if blk.Size%8 != 0 {
			return st, fmt.Errorf("%w: block at %d has size %d", ErrMisalignedSize, offset, blk.Size)
		}
		if offset+blk.Size > length {
			return st, fmt.Errorf("%w: block at %d size %d exceeds arena length %d", ErrOverrun, offset, blk.Size, length)
		}
		if !blk.Allocated && prevFree {
			return st, fmt.Errorf("%w: block at %d", ErrAdjacentFreeBlocks, offset)
		}

		st.TotalBlocks++
		if blk.Allocated {
			st.AllocatedBlocks++
			st.AllocatedBytes += blk.Size
		} else {
			st.FreeBlocks++
			st.FreeBytes += blk.Size
		}

		prevFree = !blk.Allocated
		offset += blk.Size
	}

	if offset != length {
		return st, fmt.Errorf("%w: blocks cover %d bytes, arena is %d", ErrTilingMismatch, offset, length)
	}

	listed, err := verifyFreeList(h)
	if err != nil {
		return st, err
	}
	if listed != st.FreeBlocks {
		return st, fmt.Errorf("%w: free list has %d entries, arena has %d free blocks", ErrFreeListBroken, listed, st.FreeBlocks)
	}

	return st, nil
}

func verifyFreeList(h *allocator.Heap) (int, error) {
	prev := heap.None
	cur := h.FreeHead()
	n := 0

	for cur != heap.None {
		blk := h.BlockAt(cur)
		if blk.Allocated {
			return n, fmt.Errorf("%w: free list visits allocated block at %d", ErrFreeListBroken, cur)
		}
		if blk.Prev != prev {
			return n, fmt.Errorf("%w: block at %d has prev %d, want %d", ErrFreeListBroken, cur, blk.Prev, prev)
		}
		if prev != heap.None && cur <= prev {
			return n, fmt.Errorf("%w: block at %d follows %d out of address order", ErrFreeListOrder, cur, prev)
		}
		n++
		prev = cur
		cur = blk.Next
	}

	return n, nil
}

// Checksum hashes the block layout of h (each block's offset, size and
// allocated flag, in address order) with xxhash3. Payload bytes and
// stale header bytes left inside merged blocks do not contribute.
// Useful in tests that want to assert a sequence of operations left the
// layout unchanged (e.g. a failed Allocate, or an Allocate immediately
// undone by Release).
func Checksum(h *allocator.Heap) uint64 {
	buf := make([]byte, 0, 64)
	for off := 0; off < h.Length(); {
		blk := h.BlockAt(off)
		if blk.Size <= 0 {
			break
		}
		var alloc uint64
		if blk.Allocated {
			alloc = 1
		}
		for _, v := range [...]uint64{uint64(off), uint64(blk.Size), alloc} {
			buf = binary.LittleEndian.AppendUint64(buf, v)
		}
		off += blk.Size
	}
	return xxhash3.Hash(buf)
}

// DumpRawBytes renders the entire arena region backing h as a string,
// for use in debug logging. It shares the region's backing array rather
// than copying it, so the returned string must not outlive operations
// that mutate h (Allocate/Release write through the same bytes).
func DumpRawBytes(h *allocator.Heap) string {
	return hack.ByteSliceToString(h.Arena().Bytes())
}
