// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

// Policy selects the strategy findFreeBlock uses when searching the block
// list for a free block able to host a request. Policy state is
// process-global, matching the rest of the allocator's single-mutator
// design; per-request overrides are not supported.
type Policy int

const (
	// FirstFit returns the first free block large enough to satisfy a
	// request.
	FirstFit Policy = iota
	// BestFit returns the free block whose size is closest to (but not
	// less than) the request, short-circuiting on an exact match.
	BestFit
	// WorstFit returns the largest free block, on the theory that the
	// leftover fragment it produces is more likely to be reusable.
	WorstFit
)

var currentPolicy = FirstFit

// SetPolicy changes the placement policy used by subsequent allocations.
// Values outside {FirstFit, BestFit, WorstFit} are rejected silently,
// leaving whatever policy was previously in effect.
func SetPolicy(p Policy) {
	switch p {
	case FirstFit, BestFit, WorstFit:
		currentPolicy = p
	}
}

// CurrentPolicy reports the placement policy currently in effect.
func CurrentPolicy() Policy { return currentPolicy }
