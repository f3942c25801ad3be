// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "unsafe"

// Malloc allocates size bytes and returns a pointer to the first byte of
// the payload. It returns (nil, nil) for size <= 0, and never initializes
// the memory it returns. Equivalent to C's malloc.
//
// If Malloc is entered while already running on this goroutine's call
// stack — reentrantly, typically from inside the event log or from a
// Fallback resolving itself — the request is forwarded to the current
// Fallback instead of touching the block list.
func Malloc(size int) (unsafe.Pointer, error) {
	if enterGuard() {
		b, err := currentFallback().Malloc(size)
		if len(b) == 0 {
			return nil, err
		}
		return unsafe.Pointer(&b[0]), err
	}
	defer exitGuard()

	if size <= 0 {
		return nil, nil
	}
	aligned := alignUp(size, alignment)

	b, err := allocBlock(aligned)
	if err != nil || b == nil {
		return nil, err
	}

	p := payload(b)
	logWriteLine("malloc", intField("requested", size), intField("aligned", aligned), ptrField("ptr", p))
	return p, nil
}

// MallocBytes is like Malloc but returns a []byte of exactly size bytes
// over the same memory, for callers that would rather not hold an
// unsafe.Pointer directly.
func MallocBytes(size int) ([]byte, error) {
	p, err := Malloc(size)
	if err != nil || p == nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), size), nil
}

// allocBlock finds or creates a block of at least aligned bytes of payload
// and marks it in-use. A reused free block keeps any remainder too small
// for split to carve off. It assumes the caller already holds the
// reentrancy guard.
func allocBlock(aligned int) (*block, error) {
	if heapState.base == nil {
		return extendHeap(nil, aligned)
	}

	if b := findFreeBlock(aligned); b != nil {
		split(b, aligned)
		b.isFree = false
		return b, nil
	}

	return extendHeap(heapState.lastVisited, aligned)
}

// Free releases the block p points to. p must have been returned by
// Malloc, Calloc or Realloc and not yet freed; a nil pointer is a no-op.
// Equivalent to C's free. An invalid pointer is logged and otherwise
// ignored rather than aborting the process.
func Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	if enterGuard() {
		// A pointer reaching Free while reentrant either came from the
		// Fallback or from an outer, non-reentrant Free already in
		// progress; either way there is nothing safe to do with it here
		// other than drop it, which is preferable to recursing without
		// bound.
		return
	}
	defer exitGuard()

	b, ok := validBlock(p)
	if !ok {
		logWriteLine("free", ptrField("ptr", p), strField("error", "invalid-pointer"))
		return
	}

	b.isFree = true
	coalesce(b)
	logWriteLine("free", ptrField("ptr", p))
}

// FreeBytes is like Free but accepts the []byte form MallocBytes,
// CallocBytes or ReallocBytes returned.
func FreeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	Free(unsafe.Pointer(&b[0]))
}

// Calloc allocates space for n elements of elemSize bytes each and zeroes
// exactly n*elemSize bytes of it. It returns (nil, nil) for a zero
// product and (nil, ErrSizeOverflow) if the product overflows int.
// Equivalent to C's calloc.
func Calloc(n, elemSize int) (unsafe.Pointer, error) {
	if n == 0 || elemSize == 0 {
		return nil, nil
	}
	total := n * elemSize
	if total/n != elemSize {
		return nil, ErrSizeOverflow
	}

	p, err := Malloc(total)
	if err != nil || p == nil {
		return p, err
	}

	clearBytes(unsafe.Slice((*byte)(p), total))
	logWriteLine("calloc", intField("n", n), intField("elem_size", elemSize), ptrField("ptr", p))
	return p, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// CallocBytes is like Calloc but returns a []byte of exactly n*elemSize
// zeroed bytes.
func CallocBytes(n, elemSize int) ([]byte, error) {
	p, err := Calloc(n, elemSize)
	if err != nil || p == nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), n*elemSize), nil
}

// Realloc resizes the allocation p points to, preserving the first
// min(old size, new size) bytes of content, and returns the resulting
// pointer — which may or may not equal p. Equivalent to C's realloc.
//
// Case analysis, in order:
//  1. p == nil: equivalent to Malloc(size).
//  2. size == 0: equivalent to Free(p), returning nil.
//  3. p is not a pointer this allocator tracks: logged, returns
//     (nil, ErrInvalidPointer), and the original block (if any) is left
//     untouched.
//  4. the aligned new size fits in the current block: shrunk in place via
//     split; p is returned unchanged.
//  5. the current block is immediately followed by a free, physically
//     contiguous block whose combined payload covers the request: merged
//     forward then split to the exact new size; p is returned unchanged.
//  6. otherwise: a new block is allocated, the old payload is copied into
//     it (truncated to the old size), the old block is freed, and the new
//     pointer is returned. If step 6's allocation fails, p remains valid
//     and untouched — the standard C realloc guarantee.
func Realloc(p unsafe.Pointer, size int) (unsafe.Pointer, error) {
	if p == nil {
		return Malloc(size)
	}
	if size == 0 {
		Free(p)
		return nil, nil
	}

	if enterGuard() {
		return nil, ErrInvalidPointer
	}
	defer exitGuard()

	b, ok := validBlock(p)
	if !ok {
		logWriteLine("realloc", ptrField("ptr", p), strField("error", "invalid-pointer"))
		return nil, ErrInvalidPointer
	}

	aligned := alignUp(size, alignment)

	if aligned <= b.size {
		split(b, aligned)
		// The remainder split carves off is free by construction; if it
		// lands next to another free, contiguous block, leaving it
		// unmerged would violate the same invariant Free enforces via
		// coalesce. b itself just shrank and is still in-use, so only the
		// forward direction needs checking.
		if b.next != nil && b.next.isFree {
			coalesce(b.next)
		}
		logWriteLine("realloc", ptrField("ptr", p), intField("size", size))
		return p, nil
	}

	if n := b.next; n != nil && n.isFree && contiguous(b, n) && b.size+headerSize+n.size >= aligned {
		absorb(b, n)
		split(b, aligned)
		logWriteLine("realloc", ptrField("ptr", p), intField("size", size), strField("note", "merged-forward"))
		return p, nil
	}

	newB, err := allocBlock(aligned)
	if err != nil || newB == nil {
		return nil, err
	}

	newP := payload(newB)
	copy(unsafe.Slice((*byte)(newP), aligned), unsafe.Slice((*byte)(p), b.size))

	b.isFree = true
	coalesce(b)

	logWriteLine("realloc", ptrField("old_ptr", p), ptrField("new_ptr", newP), intField("size", size))
	return newP, nil
}

// ReallocBytes is like Realloc but takes and returns []byte. An empty b is
// treated as a nil pointer, matching Realloc's case 1.
func ReallocBytes(b []byte, size int) ([]byte, error) {
	var p unsafe.Pointer
	if len(b) != 0 {
		p = unsafe.Pointer(&b[0])
	}
	np, err := Realloc(p, size)
	if err != nil || np == nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(np), size), nil
}

// validBlock implements is_valid_address: it reports the in-use block
// whose payload address equals p, scanning the whole list, or (nil,
// false) if none exists — including when the heap is empty. It is used
// only from Free and Realloc.
func validBlock(p unsafe.Pointer) (*block, bool) {
	for b := heapState.base; b != nil; b = b.next {
		if !b.isFree && payload(b) == p {
			return b, true
		}
	}
	return nil, false
}
