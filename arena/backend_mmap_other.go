//go:build !linux

package arena

import "errors"

// MmapBackend is only implemented on linux, where golang.org/x/sys/unix's
// mmap wrapper applies directly. It is still declared on other platforms
// so code referencing arena.MmapBackend{} (including defaultConfig)
// builds everywhere; acquiring from it here always fails with
// ErrBackendFailure, and callers on non-linux platforms are expected to
// pass WithBackend(PooledBackend{}) instead.
type MmapBackend struct{}

var errMmapUnsupported = errors.New("arena: MmapBackend is only available on linux")

// Acquire implements Backend.
func (MmapBackend) Acquire(size int) ([]byte, error) {
	return nil, errMmapUnsupported
}
