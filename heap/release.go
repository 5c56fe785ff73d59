package heap

// Release returns the block at address to the free list, coalescing
// with adjacent free neighbors.
//
// address is a payload offset previously returned by Allocate and not
// yet released, or none (arena.None), or an offset outside the arena's
// bounds. The bounds check is a coarse one using strict less-than/
// greater-than against the region ends — an in-range address that
// isn't actually a live payload offset is undefined behavior, matching
// the block manager's trust in its caller. Release never fails and
// never mutates state on an out-of-bounds or none address.
func (h *Heap) Release(address int) {
	length := h.a.Length()
	if address == none || address < 0 || address > length {
		return
	}

	H := address - headerSize
	S := sizeOf(h.a, H)

	// Insertion-point search: walk the free list from free_head,
	// tracking the previous free block L and stopping at the first
	// free block R whose offset is strictly greater than H.
	L, R := none, none
	cur := h.a.FreeHead()
	for cur != none {
		if cur > H {
			R = cur
			break
		}
		L = cur
		cur = nextOf(h.a, cur)
	}

	leftCoalesce := L != none && L+sizeOf(h.a, L) == H
	rightCoalesce := R != none && H+S == R

	switch {
	case leftCoalesce && rightCoalesce:
		// Both: L absorbs the released block and R; R's right
		// neighbor becomes L's next.
		rSize := sizeOf(h.a, R)
		rNext := nextOf(h.a, R)
		setSize(h.a, L, sizeOf(h.a, L)+S+rSize)
		setNext(h.a, L, rNext)
		if rNext != none {
			setPrev(h.a, rNext, L)
		}

	case rightCoalesce:
		// Right only: the released block extends to absorb R and takes
		// R's place in the free list.
		rSize := sizeOf(h.a, R)
		rNext := nextOf(h.a, R)
		setSize(h.a, H, S+rSize)
		setAllocated(h.a, H, false)
		setNext(h.a, H, rNext)
		setPrev(h.a, H, L)
		if rNext != none {
			setPrev(h.a, rNext, H)
		}
		if L != none {
			setNext(h.a, L, H)
		}

	case leftCoalesce:
		// Left only: L absorbs the released block; the released block
		// vanishes as a list entry.
		setSize(h.a, L, sizeOf(h.a, L)+S)
		setNext(h.a, L, R)
		if R != none {
			setPrev(h.a, R, L)
		}

	default:
		// Neither: the released block is inserted between L and R.
		setAllocated(h.a, H, false)
		setNext(h.a, H, R)
		setPrev(h.a, H, L)
		if L != none {
			setNext(h.a, L, H)
		}
		if R != none {
			setPrev(h.a, R, H)
		}
	}

	// free_head update: when L is none, no surviving block precedes H
	// in address order, so H (or the block it merged into, which case
	// "both"/"left" never reach here with L none) becomes the new head.
	if L == none {
		h.a.SetFreeHead(H)
	}
}
