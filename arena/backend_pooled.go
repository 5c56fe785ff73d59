package arena

import "github.com/bytedance/gopkg/lang/mcache"

// PooledBackend acquires the region from the Go heap via
// github.com/bytedance/gopkg/lang/mcache instead of mmap'ing. It is
// still a single fixed-size, non-growable slab handed to the Arena once
// — mcache is used here purely as a byte-buffer source, not as a
// general-purpose pool the allocator keeps reaching back into.
//
// This is the backend the test suite uses: it avoids depending on mmap
// being available/permitted in whatever environment the tests run in,
// and it is what a caller who simply wants "a big []byte to carve up"
// without a raw syscall should pass via arena.WithBackend.
type PooledBackend struct{}

// Acquire implements Backend.
func (PooledBackend) Acquire(size int) ([]byte, error) {
	return mcache.Malloc(size), nil
}
