// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package galloc implements a single-mutator dynamic memory allocator
// backed directly by anonymous virtual-memory mappings obtained from the
// operating system, in place of the Go runtime's own heap.
//
// The engine is the classic textbook design: an in-band header precedes
// every payload, headers are linked into one process-global doubly linked
// list in the order their backing OS mappings were created, and Malloc
// searches that list under a selectable placement policy (first-fit,
// best-fit or worst-fit) before falling back to extending the heap with a
// fresh mapping. Free coalesces adjacent free blocks, but only when they
// are also physically contiguous in memory — two blocks that merely sit
// next to each other in the list may have come from unrelated mappings.
//
// galloc assumes a single mutator: none of its package-level state is
// protected by a lock, and concurrent calls from more than one goroutine
// are undefined behavior, exactly as for the C malloc family it mirrors.
// The one piece of state that is goroutine-aware is the reentrancy guard
// in guard.go, which exists so that a goroutine which re-enters Malloc or
// Free while already inside one of them — typically via the event log or
// via fallback symbol resolution — is routed to a fallback allocator
// instead of corrupting the block list or recursing without bound.
package galloc
