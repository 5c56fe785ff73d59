// Package serial gives multi-threaded callers a concrete way to
// serialize concurrent calls against one heap.Heap, without adding any
// locking inside heap or arena — those packages remain exactly as
// single-threaded and lock-free as their callers must treat them.
//
// Gate routes every call through one task channel drained by a single
// worker goroutine, with panic recovery around each task. A pool that
// manages background fire-and-forget work typically grows workers up
// to a configurable limit and retires idle ones; Gate pins exactly one
// worker forever, because serializing calls against a single-threaded
// heap.Heap requires exactly one goroutine ever touching it, never
// more.
package serial

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/jmgbessin/MyMalloc/heap"
)

// Gate serializes Allocate/Release calls against one *heap.Heap through
// a single dedicated worker goroutine. The zero value is not usable;
// construct with NewGate.
type Gate struct {
	h     *heap.Heap
	tasks chan func()
}

// NewGate starts the worker goroutine and returns a Gate over h. The
// worker runs until Close is called.
func NewGate(h *heap.Heap) *Gate {
	g := &Gate{h: h, tasks: make(chan func(), 64)}
	go g.run()
	return g
}

func (g *Gate) run() {
	for fn := range g.tasks {
		g.runTask(fn)
	}
}

// runTask recovers from a panicking caller closure: it must not kill
// the one worker goroutine every subsequent call depends on.
func (g *Gate) runTask(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("serial: panic in gate worker: %v: %s", r, debug.Stack())
		}
	}()
	fn()
}

type allocateResult struct {
	offset int
	status heap.Status
	err    error
}

// Allocate submits an Allocate call to the worker goroutine and blocks
// until it completes or ctx is done.
func (g *Gate) Allocate(ctx context.Context, requestedPayload int) (int, heap.Status, error) {
	if err := ctx.Err(); err != nil {
		return heap.None, heap.Status{Success: false, PayloadOffset: -1, Hops: -1}, err
	}
	resCh := make(chan allocateResult, 1)
	task := func() {
		off, status, err := g.h.Allocate(requestedPayload)
		resCh <- allocateResult{off, status, err}
	}

	select {
	case g.tasks <- task:
	case <-ctx.Done():
		return heap.None, heap.Status{Success: false, PayloadOffset: -1, Hops: -1}, ctx.Err()
	}

	select {
	case r := <-resCh:
		return r.offset, r.status, r.err
	case <-ctx.Done():
		return heap.None, heap.Status{Success: false, PayloadOffset: -1, Hops: -1}, ctx.Err()
	}
}

// Release submits a Release call to the worker goroutine and blocks
// until it completes or ctx is done.
func (g *Gate) Release(ctx context.Context, address int) error {
	done := make(chan struct{})
	task := func() {
		g.h.Release(address)
		close(done)
	}

	select {
	case g.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker goroutine after it drains any tasks already
// queued. Calling Allocate/Release after Close panics, same as sending
// on a closed channel.
func (g *Gate) Close() {
	close(g.tasks)
}
