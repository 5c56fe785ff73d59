package heap

// None is the exported sentinel for "no block" / "no address", re-
// exported from arena.None so callers of Heap never need to import arena
// directly just to compare against it.
const None = none

// BlockView is a read-only snapshot of one block's header, for
// inspection by diag and tests. It is never used internally by
// Allocate/Release, which always go through the accessor functions in
// header.go directly against live arena state.
type BlockView struct {
	Offset    int
	Size      int
	Allocated bool
	Next      int // meaningful only when !Allocated
	Prev      int // meaningful only when !Allocated
}

// BlockAt returns a snapshot of the block header at the given offset.
// The caller is responsible for offset being the start of an actual
// block — same trust boundary as Release's address argument.
func (h *Heap) BlockAt(offset int) BlockView {
	return BlockView{
		Offset:    offset,
		Size:      sizeOf(h.a, offset),
		Allocated: allocatedOf(h.a, offset),
		Next:      nextOf(h.a, offset),
		Prev:      prevOf(h.a, offset),
	}
}

// Length returns the arena's total region size in bytes.
func (h *Heap) Length() int { return h.a.Length() }

// FreeHead returns the offset of the lowest-addressed free block, or
// None if the arena is fully allocated.
func (h *Heap) FreeHead() int { return h.a.FreeHead() }

// Payload returns a []byte view over an allocated block's payload,
// given the payload offset returned by Allocate. Writing through this
// slice writes directly into the arena region.
func (h *Heap) Payload(payloadOffset int) []byte {
	return payloadBytes(h.a, payloadOffset-headerSize)
}
