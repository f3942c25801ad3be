// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "unsafe"

// alignment is the unit every payload size and payload address is rounded
// up to. It must be a power of two.
const alignment = 8

// block is the in-band header that precedes every payload region galloc
// manages. Blocks are linked in the order their backing OS mapping was
// created, not in address order: each mapping is independent, so list
// neighbors are not necessarily memory neighbors. See contiguous.
type block struct {
	size   int // payload size in bytes; always a positive multiple of alignment
	isFree bool
	next   *block
	prev   *block
}

// headerSize is the size of a block header rounded up to alignment, so
// that the payload immediately following it also starts on an aligned
// address.
var headerSize = alignUp(int(unsafe.Sizeof(block{})), alignment)

// alignUp rounds n up to the nearest multiple of m. m must be a power of
// two.
func alignUp(n, m int) int { return (n + m - 1) &^ (m - 1) }

// blockFromHeader reinterprets a raw header address as a *block. Callers
// are responsible for p actually addressing a live header.
func blockFromHeader(p unsafe.Pointer) *block { return (*block)(p) }

// address returns b's header address as a plain integer, used for the
// physical-contiguity check and for comparisons against client-held
// payload pointers.
func address(b *block) uintptr { return uintptr(unsafe.Pointer(b)) }

// payload returns the address of the user-visible region following b's
// header — the pointer galloc hands back to callers.
func payload(b *block) unsafe.Pointer {
	return unsafe.Pointer(address(b) + uintptr(headerSize))
}

// blockFromPayload recovers the header owning payload address p. Callers
// must already know p addresses a live payload; validBlock, not this
// function, is what decides whether p is actually valid.
func blockFromPayload(p unsafe.Pointer) *block {
	return blockFromHeader(unsafe.Pointer(uintptr(p) - uintptr(headerSize)))
}

// contiguous reports whether b's payload region physically abuts the start
// of n's header. Two blocks adjacent in the list are not necessarily
// contiguous in memory — each heap extension is an independent OS mapping
// that can land anywhere — and every merge decision must check this before
// treating them as one region.
func contiguous(b, n *block) bool {
	return address(b)+uintptr(headerSize)+uintptr(b.size) == address(n)
}
