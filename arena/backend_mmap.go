//go:build linux

package arena

import "golang.org/x/sys/unix"

// MmapBackend acquires an anonymous, zero-filled mapping directly from
// the OS via mmap. This is the default Backend and the one New uses
// outside of tests.
//
// Uses fd=-1 with MAP_PRIVATE|MAP_ANONYMOUS rather than mapping
// /dev/zero: any anonymous-mapping mechanism produces an equivalent
// region for this allocator's purposes, and the fd=-1 form avoids an
// open file descriptor for something that is never actually read from
// disk.
type MmapBackend struct{}

// Acquire implements Backend.
func (MmapBackend) Acquire(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
}
