// Package heap implements the block manager: the core of the
// allocator — header discipline, the address-ordered doubly-linked free
// list, first-fit search with splitting on allocation, and three-way
// coalescing on release.
//
// heap never acquires memory itself; it operates entirely on an
// *arena.Arena handed to it by New, via the accessor functions in
// header.go. Arena owns the region and free_head; the block manager
// owns search/split/release, so every operation is parameterized by an
// explicit arena value rather than reaching for global state.
package heap

import "github.com/jmgbessin/MyMalloc/arena"

// Heap binds one block manager to one Arena. Its zero value is not
// usable — construct with New.
type Heap struct {
	a *arena.Arena
}

// New acquires an Arena of at least requestedSize bytes (rounded up to
// the configured page size, see arena.Option) and writes the initial
// single free-block header spanning the whole region: size = length,
// allocated = 0, next = none, prev = none, free_head = base (offset 0).
func New(requestedSize int, opts ...arena.Option) (*Heap, error) {
	a, err := arena.New(requestedSize, opts...)
	if err != nil {
		return nil, err
	}
	setSize(a, 0, a.Length())
	setAllocated(a, 0, false)
	setNext(a, 0, none)
	setPrev(a, 0, none)
	a.SetFreeHead(0)
	return &Heap{a: a}, nil
}

// Arena exposes the underlying region, for diag and for callers that
// need read access to arena-wide state (length, free-list head) without
// going through Allocate/Release.
func (h *Heap) Arena() *arena.Arena { return h.a }

// Allocate searches the free list for a block that can satisfy a
// payload of requestedPayload bytes, splitting or absorbing as needed.
//
// requestedPayload is rounded up to the next multiple of 8 (call it P).
// The free list is searched from free_head, first-fit, counting hops
// (0-based). For each free block of size F, leftover = F - (P + 24):
//   - leftover < 0: doesn't fit, keep searching.
//   - 0 <= leftover < 24: fits only if leftover is itself a multiple of
//     8 (the trailing fragment becomes padding inside the allocated
//     block, see absorb); otherwise this block is rejected and the
//     search continues.
//   - leftover >= 24: fits and will be split (see split).
//
// A negative requestedPayload fails immediately with ErrBadArgument. An
// exhausted search fails with ErrOutOfSpace. Both failures leave the
// arena state unchanged and return Status{Success: false,
// PayloadOffset: -1, Hops: -1}.
func (h *Heap) Allocate(requestedPayload int) (int, Status, error) {
	if requestedPayload < 0 {
		return none, failStatus(), ErrBadArgument
	}

	p := roundUp8(requestedPayload)
	hops := 0
	cur := h.a.FreeHead()

	for cur != none {
		f := sizeOf(h.a, cur)
		leftover := f - (p + headerSize)

		if leftover >= 0 {
			if leftover < headerSize {
				if leftover%8 == 0 {
					h.absorb(cur, p, leftover)
					return cur + headerSize, Status{Success: true, PayloadOffset: cur + headerSize, Hops: hops}, nil
				}
				// leftover is in [0,24) but not a multiple of 8: this is
				// provably unreachable once every free block's size
				// stays a multiple of 8 (P+24 and F both are). Kept as a
				// defensive branch, not relied upon; the search simply
				// continues.
			} else {
				h.split(cur, p, leftover)
				return cur + headerSize, Status{Success: true, PayloadOffset: cur + headerSize, Hops: hops}, nil
			}
		}

		cur = nextOf(h.a, cur)
		hops++
	}

	return none, failStatus(), ErrOutOfSpace
}

// split handles the leftover >= 24 case: block b is replaced in the free
// list, at the same list position, by a new free block B' = b + 24 + p
// of size leftover; b itself becomes an allocated block of size p + 24.
func (h *Heap) split(b, p, leftover int) {
	L := prevOf(h.a, b)
	R := nextOf(h.a, b)

	newFree := b + headerSize + p
	setSize(h.a, newFree, leftover)
	setAllocated(h.a, newFree, false)
	setNext(h.a, newFree, R)
	setPrev(h.a, newFree, L)

	if L == none {
		h.a.SetFreeHead(newFree)
	} else {
		setNext(h.a, L, newFree)
	}
	if R != none {
		setPrev(h.a, R, newFree)
	}

	setSize(h.a, b, p+headerSize)
	setAllocated(h.a, b, true)
}

// absorb handles the 0 <= leftover < 24, leftover%8==0 case: block b is
// removed from the free list entirely and becomes an allocated block
// whose size absorbs the trailing fragment as payload padding.
func (h *Heap) absorb(b, p, leftover int) {
	L := prevOf(h.a, b)
	R := nextOf(h.a, b)

	if L == none {
		h.a.SetFreeHead(R)
	} else {
		setNext(h.a, L, R)
	}
	if R != none {
		setPrev(h.a, R, L)
	}

	setSize(h.a, b, p+leftover+headerSize)
	setAllocated(h.a, b, true)
}
