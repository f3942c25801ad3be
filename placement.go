// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

// findFreeBlock scans the block list from its head for a free block able
// to host requestedSize bytes of payload, per CurrentPolicy. requestedSize
// must already be aligned. It has the side effect of recording the last
// block visited in heapState.lastVisited, which a subsequent heap extension
// uses as its splice point. There is no free-list shortcut: the scan stops
// early only on a first-fit hit or a best-fit exact match, and otherwise
// walks the full list, so after a miss lastVisited is the list's tail.
func findFreeBlock(requestedSize int) *block {
	var best *block
	bestDelta := 0

	for b := heapState.base; b != nil; b = b.next {
		heapState.lastVisited = b
		if !b.isFree || b.size < requestedSize {
			continue
		}

		switch currentPolicy {
		case FirstFit:
			return b
		case BestFit:
			if b.size == requestedSize {
				return b // perfect fit short-circuits the search
			}
			if delta := b.size - requestedSize; best == nil || delta < bestDelta {
				best, bestDelta = b, delta
			}
		case WorstFit:
			if best == nil || b.size > best.size {
				best = b
			}
		}
	}
	return best
}
