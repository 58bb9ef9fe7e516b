/*
Copyright 2024-2026 The ips4o-go Authors
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package classify implements the branchless k-way splitter tree:
// building the implicit 1-indexed tree from a sorted splitter slice, and
// descending it to classify one element or a small interleaved batch of
// elements into a bucket index.
package classify

import "github.com/ips4o-go/ips4o/internal/xmath"

// Tree is the branchless k-way splitter tree. The zero value is not
// usable; construct with New and reuse across recursion levels by
// refilling Splitters() and calling SetSplitterLen and Build again.
type Tree[T any] struct {
	less func(a, b T) bool

	tree        []T
	splitters   []T
	splitterLen int

	// EqualBuckets enables the extra one-step descent that routes runs
	// of elements equal to a splitter into odd "equality" buckets.
	EqualBuckets bool
}

// New allocates a Tree sized for the maximum supported bucket count. The
// backing arrays are allocated once and reused by every recursion level;
// nothing is reallocated inside the hot loops.
func New[T any](less func(a, b T) bool) *Tree[T] {
	return &Tree[T]{
		less:      less,
		tree:      make([]T, xmath.MaxBuckets),
		splitters: make([]T, xmath.MaxBuckets),
	}
}

// Splitters returns the mutable backing array of splitters so the
// sampler can populate it directly before calling SetSplitterLen+Build.
func (this *Tree[T]) Splitters() []T {
	return this.splitters
}

// SetSplitterLen records how many of Splitters() are populated and
// sorted ascending, i.e. the bucket count for this level (a power of
// two).
func (this *Tree[T]) SetSplitterLen(n int) {
	this.splitterLen = n
}

// SplitterLen returns the current bucket count (as set by
// SetSplitterLen).
func (this *Tree[T]) SplitterLen() int {
	return this.splitterLen
}

// Build fills the implicit 1-indexed tree from the first SplitterLen()-1
// splitters: node p holds the median of its subtree's splitter range, so
// an in-order walk of the tree reads the splitters back in sorted order.
func (this *Tree[T]) Build() {
	this.buildRecurse(0, this.splitterLen-1, 1)
}

func (this *Tree[T]) buildRecurse(start, end, pos int) {
	if start >= end {
		return
	}
	mid := start + (end-start)/2
	this.tree[pos] = this.splitters[mid]
	this.buildRecurse(start, mid, pos*2)
	this.buildRecurse(mid+1, end, pos*2+1)
}

// ClassifySingle descends the tree once for val and returns its bucket
// index in [0, k') where k' is SplitterLen() (or 2*SplitterLen() with
// EqualBuckets). The comparison result feeds the child index directly;
// there is no data-dependent branch on the comparator's outcome.
func (this *Tree[T]) ClassifySingle(val T) int {
	logBuckets := xmath.Log2NoCheck(uint32(this.splitterLen))
	numBuckets := this.splitterLen
	if this.EqualBuckets {
		numBuckets <<= 1
	}
	b := 1
	for i := uint32(0); i < logBuckets; i++ {
		if this.less(this.tree[b], val) {
			b = 2*b + 1
		} else {
			b = 2 * b
		}
	}
	if this.EqualBuckets {
		isEqual := !this.less(val, this.splitters[b-this.splitterLen])
		b = 2 * b
		if isEqual {
			b++
		}
	}
	return b - numBuckets
}

// ClassifyBatch classifies xmath.BatchSize elements with their
// comparisons interleaved, so independent `less` calls can occupy the
// pipeline simultaneously instead of serializing behind a single chain
// of data-dependent branches.
func (this *Tree[T]) ClassifyBatch(v *[xmath.BatchSize]T) [xmath.BatchSize]int {
	logBuckets := xmath.Log2NoCheck(uint32(this.splitterLen))
	numBuckets := this.splitterLen
	if this.EqualBuckets {
		numBuckets <<= 1
	}

	var idx [xmath.BatchSize]int
	for i := range idx {
		idx[i] = 1
	}

	for step := uint32(0); step < logBuckets; step++ {
		for i := 0; i < xmath.BatchSize; i++ {
			b := idx[i]
			if this.less(this.tree[b], v[i]) {
				idx[i] = 2*b + 1
			} else {
				idx[i] = 2 * b
			}
		}
	}

	if this.EqualBuckets {
		for i := 0; i < xmath.BatchSize; i++ {
			b := idx[i]
			isEqual := !this.less(v[i], this.splitters[b-this.splitterLen])
			idx[i] = 2 * b
			if isEqual {
				idx[i]++
			}
		}
	}

	for i := range idx {
		idx[i] -= numBuckets
	}
	return idx
}

// NumBuckets returns the number of buckets elements are classified into
// at the current SplitterLen/EqualBuckets setting.
func (this *Tree[T]) NumBuckets() int {
	if this.EqualBuckets {
		return this.splitterLen << 1
	}
	return this.splitterLen
}
