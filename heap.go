// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"fmt"
	"unsafe"
)

// mapping records one OS-granted virtual memory range so that
// CloseForTesting can release it later. The engine itself never unmaps on
// the normal alloc/free path — returning memory to the OS is an explicit
// Non-goal — but a test suite that allocates many heaps still wants a way
// to avoid leaking virtual address space across the whole run.
type mapping struct {
	addr unsafe.Pointer
	size int
}

// heapState holds every piece of process-global mutable state the engine
// needs. None of it is guarded by a lock: per the single-mutator model,
// concurrent calls into galloc from more than one goroutine are undefined
// behavior, same as for the C allocator this package mirrors.
var heapState struct {
	base        *block // head of the block list; nil means the heap has never been touched
	lastVisited *block // anchor recorded by findFreeBlock, used to splice the next extension
	mappings    []mapping
}

// extendHeap asks the OS for a fresh mapping large enough to hold one
// in-use block of payloadSize bytes, splices it onto the list after tail
// (or makes it heapState.base if tail is nil), and returns it. Each
// mapping is independent of every other: its address is not expected to
// be contiguous with any earlier one, which is exactly why coalesce must
// always re-check physical adjacency before merging.
func extendHeap(tail *block, payloadSize int) (*block, error) {
	mapSize := headerSize + payloadSize

	addr, err := mmapRegion(mapSize)
	if err != nil {
		logWriteLine("extend_heap", intField("size", payloadSize), strField("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	heapState.mappings = append(heapState.mappings, mapping{addr: addr, size: mapSize})

	b := blockFromHeader(addr)
	*b = block{size: payloadSize, isFree: false, prev: tail}
	if tail != nil {
		tail.next = b
	} else {
		heapState.base = b
	}

	logWriteLine("extend_heap", intField("size", payloadSize), ptrField("block", unsafe.Pointer(b)))
	return b, nil
}

// ResetHeapForTesting abandons every block the allocator has ever created
// by nilling the list head. The underlying OS mappings are not released:
// this mirrors the documented, test-only leak in the allocator this
// package implements. Use CloseForTesting instead when the test itself
// needs to avoid accumulating mappings across many runs.
func ResetHeapForTesting() {
	heapState.base = nil
	heapState.lastVisited = nil
	heapState.mappings = nil
}

// CloseForTesting releases every OS mapping the allocator has created
// since the last ResetHeapForTesting (which drops its records of earlier
// ones) and resets the heap to its zero state. It is not part of the
// allocator contract this package implements — the engine is explicitly
// willing to leak virtual mappings — but is useful for test suites that
// would otherwise accumulate thousands of live mappings over a long run.
func CloseForTesting() error {
	var firstErr error
	for _, m := range heapState.mappings {
		if err := munmapRegion(m.addr, m.size); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	ResetHeapForTesting()
	return firstErr
}
