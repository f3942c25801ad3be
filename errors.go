// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import "errors"

// Sentinel errors returned by the allocator API. None of them are raised
// as panics: every error surface the package exposes degrades to a
// returned error (often paired with a nil pointer), never an abort.
var (
	// ErrSizeOverflow is returned by Calloc when n*elemSize overflows int.
	ErrSizeOverflow = errors.New("galloc: size overflow")

	// ErrMapFailed wraps an OS mapping failure from extendHeap.
	ErrMapFailed = errors.New("galloc: os mapping failed")

	// ErrInvalidPointer is returned by Realloc when given a pointer this
	// allocator did not hand out, or that was already freed.
	ErrInvalidPointer = errors.New("galloc: pointer not tracked by this allocator")

	// ErrLogOpenFailed wraps a failure to open the event log destination.
	ErrLogOpenFailed = errors.New("galloc: failed to open event log")
)
