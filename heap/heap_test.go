package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgbessin/MyMalloc/arena"
)

// newTestHeap backs the arena with arena.PooledBackend instead of mmap
// so tests don't depend on mmap being available in whatever environment
// runs them.
func newTestHeap(t *testing.T, size int) *Heap {
	t.Helper()
	h, err := New(size, arena.WithBackend(arena.PooledBackend{}))
	require.NoError(t, err)
	return h
}

func TestInitialState(t *testing.T) {
	h := newTestHeap(t, 4096)
	assert.Equal(t, 4096, h.Length())
	assert.Equal(t, 0, h.FreeHead())

	b := h.BlockAt(0)
	assert.Equal(t, 4096, b.Size)
	assert.False(t, b.Allocated)
	assert.Equal(t, None, b.Next)
	assert.Equal(t, None, b.Prev)
}

// S1: allocate(100) on a fresh 4096-byte arena.
func TestScenario1(t *testing.T) {
	h := newTestHeap(t, 4096)

	off, status, err := h.Allocate(100)
	require.NoError(t, err)
	assert.True(t, status.Success)
	assert.Equal(t, 24, off)
	assert.Equal(t, 24, status.PayloadOffset)
	assert.Equal(t, 0, status.Hops)

	allocated := h.BlockAt(0)
	assert.Equal(t, 128, allocated.Size)
	assert.True(t, allocated.Allocated)

	free := h.BlockAt(128)
	assert.Equal(t, 3968, free.Size)
	assert.False(t, free.Allocated)
	assert.Equal(t, 128, h.FreeHead())
}

// S2: after S1, allocate(3944) exactly exhausts the remaining free block.
func TestScenario2(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, _, err := h.Allocate(100)
	require.NoError(t, err)

	off, status, err := h.Allocate(3944)
	require.NoError(t, err)
	assert.True(t, status.Success)
	assert.Equal(t, 152, off)
	assert.Equal(t, 0, status.Hops)
	assert.Equal(t, None, h.FreeHead())
}

// S3: after S1+S2 the arena is full; any further allocation fails.
func TestScenario3(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, _, err := h.Allocate(100)
	require.NoError(t, err)
	_, _, err = h.Allocate(3944)
	require.NoError(t, err)

	off, status, err := h.Allocate(8)
	assert.ErrorIs(t, err, ErrOutOfSpace)
	assert.False(t, status.Success)
	assert.Equal(t, -1, status.PayloadOffset)
	assert.Equal(t, -1, status.Hops)
	assert.Equal(t, none, off)
}

// S4: after S1+S2, releasing the S1 payload frees offset 0 without
// coalescing (offset 128 is allocated from S2).
func TestScenario4(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, _, err := h.Allocate(100)
	require.NoError(t, err)
	_, _, err = h.Allocate(3944)
	require.NoError(t, err)

	h.Release(24)

	freed := h.BlockAt(0)
	assert.False(t, freed.Allocated)
	assert.Equal(t, 128, freed.Size)
	assert.Equal(t, 0, h.FreeHead())
}

// S5: allocate a/b/c then release a, c, b (in that order); the arena
// must end up as exactly one free block of size 4096 at offset 0.
func TestScenario5(t *testing.T) {
	h := newTestHeap(t, 4096)

	a, _, err := h.Allocate(40)
	require.NoError(t, err)
	b, _, err := h.Allocate(40)
	require.NoError(t, err)
	c, _, err := h.Allocate(40)
	require.NoError(t, err)

	h.Release(a)
	h.Release(c)
	h.Release(b)

	assert.Equal(t, 0, h.FreeHead())
	root := h.BlockAt(0)
	assert.Equal(t, 4096, root.Size)
	assert.False(t, root.Allocated)
	assert.Equal(t, None, root.Next)
	assert.Equal(t, None, root.Prev)
}

// S6: allocate(-1) fails with BadArgument and leaves the arena unchanged.
func TestScenario6(t *testing.T) {
	h := newTestHeap(t, 4096)
	before := h.BlockAt(0)

	off, status, err := h.Allocate(-1)
	assert.ErrorIs(t, err, ErrBadArgument)
	assert.False(t, status.Success)
	assert.Equal(t, -1, status.PayloadOffset)
	assert.Equal(t, -1, status.Hops)
	assert.Equal(t, none, off)

	after := h.BlockAt(0)
	assert.Equal(t, before, after)
}

// B1: a request larger than the arena can ever hold fails OutOfSpace.
func TestBoundaryOutOfSpace(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, status, err := h.Allocate(4096)
	assert.ErrorIs(t, err, ErrOutOfSpace)
	assert.False(t, status.Success)
}

// B2: requesting exactly the remaining free size of a single-block arena
// succeeds and leaves the free list empty.
func TestBoundaryExactFit(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, status, err := h.Allocate(4096 - headerSize)
	require.NoError(t, err)
	assert.True(t, status.Success)
	assert.Equal(t, None, h.FreeHead())
}

// B3: a request whose rounded leftover lands in [0,24) and is a
// multiple of 8 produces a non-split allocation of size P+leftover+24.
func TestBoundaryAbsorbLeftover(t *testing.T) {
	h := newTestHeap(t, 4096)
	// leftover = 4096 - (P+24). Want 0 <= leftover < 24 and leftover%8==0.
	// P=4048 gives leftover 24, which is not < 24 and would split.
	// P=4064 -> leftover = 4096-4088 = 8.
	_, status, err := h.Allocate(4064)
	require.NoError(t, err)
	require.True(t, status.Success)
	assert.Equal(t, None, h.FreeHead())

	b := h.BlockAt(0)
	assert.Equal(t, 4064+8+headerSize, b.Size)
	assert.Equal(t, 4096, b.Size)
}

// B4: a request whose rounded leftover is in (0,24) but not a multiple
// of 8 is skipped, and the search continues to the next free block.
//
// Every free block's size stays a multiple of 8 by construction
// (Allocate only ever splits/absorbs into sizes derived from other
// multiples of 8), so this condition is provably unreachable by
// chaining Allocate calls through the public API alone. The only way to
// exercise the rejection branch is to hand-corrupt a free block's size
// field directly via the package-internal setSize, simulating a caller
// that bypassed the allocator and wrote a malformed header.
func TestBoundarySkipsMisalignedLeftover(t *testing.T) {
	h := newTestHeap(t, 4096)

	// Split off a free block at offset 40 (size 4056) by allocating 16
	// bytes from the initial single free block.
	_, _, err := h.Allocate(16)
	require.NoError(t, err)
	require.Equal(t, 1, countFree(h))
	freeOffset := h.FreeHead()

	// Corrupt that free block's size so that P=16 against it leaves
	// leftover = 60-(16+24) = 20, which is in [0,24) but not a multiple
	// of 8.
	setSize(h.a, freeOffset, 60)

	// The corrupted block is rejected by the absorb-leftover check, and
	// since it is the only free block, the search exhausts the list.
	_, status, err := h.Allocate(16)
	assert.ErrorIs(t, err, ErrOutOfSpace)
	assert.False(t, status.Success)
}

// L2: release(none) and release(out-of-bounds) are no-ops.
func TestReleaseNoneAndOutOfBoundsAreNoops(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, _, err := h.Allocate(100)
	require.NoError(t, err)

	before := snapshot(h)
	h.Release(None)
	h.Release(-1)
	h.Release(h.Length() + 1)
	assert.Equal(t, before, snapshot(h))
}

// L3: hops is always >= 0 and is 0 exactly when the first free block
// satisfies the request.
func TestHopsCount(t *testing.T) {
	h := newTestHeap(t, 8192)
	a, statusA, err := h.Allocate(16)
	require.NoError(t, err)
	assert.Equal(t, 0, statusA.Hops)

	_, statusB, err := h.Allocate(16)
	require.NoError(t, err)
	assert.Equal(t, 0, statusB.Hops)

	h.Release(a)
	// free_head now points at the freed 16-ish block first (lowest
	// address); a request too big for it must hop over it.
	_, statusC, err := h.Allocate(4096)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, statusC.Hops, 1)
}

func TestNegativeFromEmptyArena(t *testing.T) {
	h := newTestHeap(t, 4096)
	_, status, err := h.Allocate(-5)
	assert.ErrorIs(t, err, ErrBadArgument)
	assert.Equal(t, -1, status.Hops)
}

// countFree walks the free list and counts entries.
func countFree(h *Heap) int {
	n := 0
	for cur := h.FreeHead(); cur != None; cur = h.BlockAt(cur).Next {
		n++
	}
	return n
}

// snapshot captures every block's header in address order, for
// before/after comparisons in no-op tests.
func snapshot(h *Heap) []BlockView {
	var blocks []BlockView
	offset := 0
	for offset < h.Length() {
		b := h.BlockAt(offset)
		blocks = append(blocks, b)
		offset += b.Size
	}
	return blocks
}
