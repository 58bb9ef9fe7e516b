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

package analyze

// partitionFriendlySort handles a chunk the router has tagged as badly
// skewed (fewer than a third, or at least two thirds, of its sampled
// adjacent pairs inverted) rather than genuinely shuffled: one Hoare partition around a median-of-three pivot
// usually leaves a short, already-sorted side and a long side worth
// re-sorting with the caller's general sorter. If that long side turns
// out to start with a run of values equal to the pivot - the signature
// of a chunk full of duplicates - a second, three-way partition grooms
// the duplicates out before handing the remainder back to sortRest.
// Every step this file takes is an in-place swap of whole elements,
// never a bare copy held outside the slice, so a panicking less leaves
// v a valid permutation of its input with no separate guard needed.
func partitionFriendlySort[T any](v []T, less func(a, b T) bool, sortRest func([]T)) {
	if len(v) < 2 {
		return
	}

	pivotIdx := choosePivot(v, less)
	mid := partitionAround(v, pivotIdx, less)

	left := v[:mid]
	pred := v[mid]
	right := v[mid+1:]

	if len(right) > 1 {
		pivotIdx2 := choosePivot(right, less)
		if !less(pred, right[pivotIdx2]) {
			eqCount := partitionEqual(right, pivotIdx2, less)
			right = right[eqCount:]
		}
	}

	sortRest(left)
	sortRest(right)
}

// choosePivot picks a pivot index via median-of-three over v's quarter
// points, reversing v first if the probe turns up mostly-descending
// order. A median-of-medians refinement over three such triples would
// only change pivot quality on large inputs; one triple is enough here
// because the general sorter re-partitions both sides anyway.
func choosePivot[T any](v []T, less func(a, b T) bool) int {
	n := len(v)
	a, b, c := n/4, n/2, n*3/4
	swaps := 0

	if n >= 8 {
		sort2 := func(x, y *int) {
			if less(v[*y], v[*x]) {
				*x, *y = *y, *x
				swaps++
			}
		}
		sort2(&a, &b)
		sort2(&b, &c)
		sort2(&a, &b)
	}

	if swaps < 3 {
		return b
	}
	reverseSlice(v)
	return n - 1 - b
}

// partitionAround swaps v[pivotIdx] to the front, partitions the rest
// around its value with a two-pointer Hoare scan, and returns the
// pivot's final resting index. Afterward v[:mid] holds everything
// strictly less than v[mid], and v[mid+1:] holds everything else.
func partitionAround[T any](v []T, pivotIdx int, less func(a, b T) bool) int {
	v[0], v[pivotIdx] = v[pivotIdx], v[0]
	pivot := v[0]

	l, r := 1, len(v)
	for l < r && less(v[l], pivot) {
		l++
	}
	for l < r && !less(v[r-1], pivot) {
		r--
	}
	for l < r {
		v[l], v[r-1] = v[r-1], v[l]
		l++
		r--
		for l < r && less(v[l], pivot) {
			l++
		}
		for l < r && !less(v[r-1], pivot) {
			r--
		}
	}

	v[0], v[l-1] = v[l-1], v[0]
	return l - 1
}

// partitionEqual partitions v around v[pivotIdx]'s value, grouping
// every element equal to it at the front. Returns the count of elements
// (pivot included) that compare neither less nor greater than the
// pivot.
func partitionEqual[T any](v []T, pivotIdx int, less func(a, b T) bool) int {
	v[0], v[pivotIdx] = v[pivotIdx], v[0]
	pivot := v[0]
	rest := v[1:]

	l, r := 0, len(rest)
	for {
		for l < r && !less(pivot, rest[l]) {
			l++
		}
		for l < r && less(pivot, rest[r-1]) {
			r--
		}
		if l >= r {
			break
		}
		r--
		rest[l], rest[r] = rest[r], rest[l]
		l++
	}
	return l + 1
}
