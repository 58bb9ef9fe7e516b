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

import "github.com/ips4o-go/ips4o/internal/merge"

// naturalMergeSort is the substitute the router reaches for on a chunk
// tagged merge-friendly (long ascending or descending streaks but not
// fully sorted): it finds v's maximal ascending runs, reverses the
// descending ones in place so they read as ascending runs too, then
// reduces the run list to one sorted run with repeated pairwise calls
// to internal/merge.DoubleMerge. A natural merge sort is the right
// tool for this shape of input (long runs, few inversions): run
// detection costs one linear scan and every merge pass halves the run
// count.
func naturalMergeSort[T any](v []T, less func(a, b T) bool, scratch *merge.Scratch[T]) {
	n := len(v)
	if n < 2 {
		return
	}

	bounds := []int{0}
	i := 0
	for i < n-1 {
		j := i + 1
		if less(v[j], v[i]) {
			for j < n-1 && less(v[j+1], v[j]) {
				j++
			}
			reverseSlice(v[i : j+1])
		} else {
			for j < n-1 && !less(v[j+1], v[j]) {
				j++
			}
		}
		i = j + 1
		bounds = append(bounds, i)
	}
	if bounds[len(bounds)-1] != n {
		bounds = append(bounds, n)
	}

	for len(bounds) > 2 {
		merged := []int{bounds[0]}
		i := 0
		for i+2 < len(bounds) {
			lo, mid, hi := bounds[i], bounds[i+1], bounds[i+2]
			merge.DoubleMerge(v[lo:hi], mid-lo, scratch, less)
			merged = append(merged, hi)
			i += 2
		}
		if i+1 < len(bounds) {
			merged = append(merged, bounds[len(bounds)-1])
		}
		bounds = merged
	}
}
