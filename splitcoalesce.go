// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "unsafe"

// split subdivides b so that its first requestedSize bytes become its new
// payload, carving the leftover into a new free block when the leftover is
// large enough to be worth tracking on its own — i.e. big enough to host a
// header plus one alignment unit of payload. When the leftover is smaller
// than that, it stays inside b as internal fragmentation; the caller
// accepted that tradeoff by calling split at all. Precondition: b.size >=
// requestedSize.
func split(b *block, requestedSize int) {
	remainder := b.size - requestedSize
	if remainder < headerSize+alignment {
		return
	}

	n := blockFromHeader(unsafe.Pointer(address(b) + uintptr(headerSize+requestedSize)))
	*n = block{
		size:   remainder - headerSize,
		isFree: true,
		prev:   b,
		next:   b.next,
	}
	if b.next != nil {
		b.next.prev = n
	}
	b.next = n
	b.size = requestedSize

	logWriteLine("split_block",
		ptrField("block", unsafe.Pointer(b)),
		intField("size", requestedSize),
		ptrField("remainder", unsafe.Pointer(n)),
		intField("remainder_size", n.size),
	)
}

// coalesce merges b with whichever of its list neighbors are both free and
// physically contiguous with it, backward first and then forward, and
// returns the block that survives the merge (b itself, or b.prev if a
// backward merge happened). Two list-adjacent blocks that are free but
// belong to different OS mappings are never merged: contiguous is the
// guard against corrupting memory across unrelated mappings.
func coalesce(b *block) *block {
	if p := b.prev; p != nil && p.isFree && contiguous(p, b) {
		absorb(p, b)
		b = p
	}
	if n := b.next; n != nil && n.isFree && contiguous(b, n) {
		absorb(b, n)
	}
	return b
}

// absorb merges n into b, growing b to cover n's header and payload and
// splicing n out of the list. n must already be known free and physically
// contiguous with b; b itself may be free (coalesce) or in use (Realloc's
// forward merge).
func absorb(b, n *block) {
	b.size += headerSize + n.size
	b.next = n.next
	if n.next != nil {
		n.next.prev = b
	}

	logWriteLine("coalesce",
		ptrField("survivor", unsafe.Pointer(b)),
		ptrField("absorbed", unsafe.Pointer(n)),
		intField("new_size", b.size),
	)
}
