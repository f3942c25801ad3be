// Copyright 2017 The Memory Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitCarvesUsableRemainder(t *testing.T) {
	ResetHeapForTesting()
	t.Cleanup(func() { CloseForTesting() })

	b, err := extendHeap(nil, 2048)
	require.NoError(t, err)

	split(b, 128)
	require.Equal(t, 128, b.size)
	require.NotNil(t, b.next)
	require.True(t, b.next.isFree)
	require.Equal(t, 2048-128-headerSize, b.next.size)
	require.True(t, contiguous(b, b.next))
}

func TestSplitLeavesSlackWhenRemainderTooSmall(t *testing.T) {
	ResetHeapForTesting()
	t.Cleanup(func() { CloseForTesting() })

	b, err := extendHeap(nil, 128)
	require.NoError(t, err)

	split(b, 128-headerSize-alignment+1) // remainder would be headerSize+alignment-1
	require.Equal(t, 128, b.size, "undersized remainder must stay inside b")
	require.Nil(t, b.next)
}

func TestCoalesceMergesBackwardAndForward(t *testing.T) {
	ResetHeapForTesting()
	t.Cleanup(func() { CloseForTesting() })

	whole, err := extendHeap(nil, 300)
	require.NoError(t, err)
	split(whole, 100)
	middle := whole.next
	split(middle, 100)
	last := middle.next

	require.NotNil(t, last)
	whole.isFree, middle.isFree, last.isFree = true, true, true

	survivor := coalesce(middle)
	require.Same(t, whole, survivor)
	require.Nil(t, survivor.next)
	require.Equal(t, 300, survivor.size)
}

func TestCoalesceNeverCrossesMappings(t *testing.T) {
	ResetHeapForTesting()
	t.Cleanup(func() { CloseForTesting() })

	a, err := extendHeap(nil, 64)
	require.NoError(t, err)
	b, err := extendHeap(a, 64)
	require.NoError(t, err)
	a.isFree, b.isFree = true, true

	// a and b are list-adjacent but came from independent mappings, so
	// they are free but (almost certainly) not contiguous; coalesce must
	// not merge them in that case.
	if contiguous(a, b) {
		t.Skip("mappings landed contiguously by chance; nothing to assert here")
	}

	coalesce(a)
	require.NotNil(t, a.next, "unrelated mappings must not be merged")
	require.Same(t, b, a.next)
}

func TestCoalesceCascadeScenario(t *testing.T) {
	// spec scenario: three 100-byte blocks p1, p2, p3 from one mapping;
	// freeing the middle, then the first, then the last should always
	// collapse to a single free region.
	ResetHeapForTesting()
	t.Cleanup(func() { CloseForTesting() })

	whole, err := extendHeap(nil, 300+2*headerSize) // 100 + header + 100 + header + 100
	require.NoError(t, err)
	split(whole, 100)
	p1 := whole
	split(p1.next, 100)
	p2 := p1.next
	p3 := p2.next
	require.NotNil(t, p3)

	p2.isFree = true
	coalesce(p2)
	require.Equal(t, 1, countFree(p1))

	p1.isFree = true
	coalesce(p1)
	require.Equal(t, 1, countFree(p1))

	p3.isFree = true
	coalesce(p3)
	require.Equal(t, 1, countFree(p1))
}

// countFree counts free blocks reachable by walking both directions from
// start, since start itself may have been absorbed into a neighbor.
func countFree(start *block) int {
	head := start
	for head.prev != nil {
		head = head.prev
	}
	n := 0
	for b := head; b != nil; b = b.next {
		if b.isFree {
			n++
		}
	}
	return n
}
