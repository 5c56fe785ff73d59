package heap_test

import (
	"fmt"

	"github.com/jmgbessin/MyMalloc/arena"
	"github.com/jmgbessin/MyMalloc/heap"
)

func Example() {
	h, _ := heap.New(4096, arena.WithBackend(arena.PooledBackend{}))

	off, status, _ := h.Allocate(100)
	fmt.Printf("offset=%d success=%v hops=%d\n", off, status.Success, status.Hops)

	payload := h.Payload(off)
	fmt.Printf("payload len=%d\n", len(payload))

	h.Release(off)
	fmt.Printf("free_head=%d\n", h.FreeHead())

	// Output:
	// offset=24 success=true hops=0
	// payload len=104
	// free_head=0
}
