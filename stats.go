// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"fmt"
	"os"
)

// Stats is a point-in-time snapshot of heap usage, produced by a single
// traversal of the block list. Header bytes are excluded from both
// AllocatedBytes and FreeBytes.
type Stats struct {
	AllocatedBytes int
	FreeBytes      int
	AllocatedCount int
	FreeCount      int
}

// MemoryUsageStats walks the block list once and reports live usage
// counters.
func MemoryUsageStats() Stats {
	var s Stats
	for b := heapState.base; b != nil; b = b.next {
		if b.isFree {
			s.FreeBytes += b.size
			s.FreeCount++
		} else {
			s.AllocatedBytes += b.size
			s.AllocatedCount++
		}
	}
	return s
}

// String renders s for diagnostics; it is not a stable, parseable format.
func (s Stats) String() string {
	return fmt.Sprintf("allocated=%d/%dB free=%d/%dB", s.AllocatedCount, s.AllocatedBytes, s.FreeCount, s.FreeBytes)
}

// FragmentationRate reports how concentrated free memory is: 0.0 when all
// free memory lives in one block (or there is none at all), approaching
// 1.0 as free memory is scattered across many small blocks relative to
// the largest one.
func FragmentationRate() float64 {
	var total, largest int
	for b := heapState.base; b != nil; b = b.next {
		if !b.isFree {
			continue
		}
		total += b.size
		if b.size > largest {
			largest = b.size
		}
	}
	if total == 0 {
		return 0.0
	}
	return 1.0 - float64(largest)/float64(total)
}

// CheckConsistency scans the block list for violations of the invariants
// this package maintains and writes one diagnostic line per violation to
// os.Stderr: a broken next/prev back-link, or two list-adjacent blocks
// that are both free and physically contiguous — the one state coalesce
// should never leave behind. It is read-only and never aborts.
func CheckConsistency() {
	for b := heapState.base; b != nil; b = b.next {
		if b.next != nil && b.next.prev != b {
			fmt.Fprintf(os.Stderr, "galloc: inconsistent list: block %p next.prev mismatch\n", b)
		}
		if b.next != nil && b.isFree && b.next.isFree && contiguous(b, b.next) {
			fmt.Fprintf(os.Stderr, "galloc: coalesce invariant violated: %p and %p are free and contiguous\n", b, b.next)
		}
	}
}
