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

// Package analyze implements the front-end router that samples an
// input's shape before committing to the general sort: it splits v into
// AnalyzeChunks equal chunks, strided-samples each for sortedness and
// local inversion streaks, tags each chunk as already-sorted,
// reverse-sorted, merge-friendly (long runs), partition-friendly (badly
// skewed but not fully sorted), or plain unsorted, dispatches each
// contiguous run of same-tagged chunks to the matching sub-algorithm,
// and finally merges whatever whole-chunk runs turn out to already be
// contiguous and sorted.
package analyze

import (
	"golang.org/x/sync/errgroup"

	"github.com/ips4o-go/ips4o/internal/merge"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

const (
	chunks    = xmath.AnalyzeChunks
	streakLen = xmath.AnalyzeStreakLen
)

// Analyze samples v and dispatches each region to the cheapest
// sufficient algorithm, sorting v completely. sortUnsorted is the
// caller's general recursive sorter (internal/engine's sequential
// recursion), used both for genuinely unsorted regions and, within
// internal/analyze, for the two halves a partition-friendly region
// splits into. scratch is reused for every merge call this invocation
// makes.
func Analyze[T any](v []T, less func(a, b T) bool, sortUnsorted func([]T), scratch *merge.Scratch[T]) {
	n := len(v)
	chunkLen := n / chunks
	if chunkLen == 0 {
		sortUnsorted(v)
		return
	}

	mergeFriendlyThreshold := n * 3 / 4 / (chunks * streakLen)
	partitionThreshold := n / chunks / 3

	balance := make([]int, chunks)
	streaks := make([]int, chunks)
	var g errgroup.Group
	for f := 0; f < chunks; f++ {
		f := f
		g.Go(func() error {
			balance[f], streaks[f] = scanChunk(v, less, f*chunkLen, n)
			return nil
		})
	}
	_ = g.Wait()

	remainderSorted := true
	for i := chunks*chunkLen - 1; i < n-1; i++ {
		if less(v[i+1], v[i]) {
			remainderSorted = false
			break
		}
	}
	boundariesSorted := true
	for i := 1; i < chunks; i++ {
		b := i * chunkLen
		if less(v[b], v[b-1]) {
			boundariesSorted = false
			break
		}
	}

	sorted := make([]bool, chunks)
	allSorted := true
	for i := range sorted {
		sorted[i] = balance[i] == 0
	}
	sorted[chunks-1] = sorted[chunks-1] && remainderSorted
	for _, s := range sorted {
		allSorted = allSorted && s
	}
	if allSorted && remainderSorted && boundariesSorted {
		return
	}

	reversed := make([]bool, chunks)
	mergeFriendly := make([]bool, chunks)
	partitionFriendly := make([]bool, chunks)
	unsorted := make([]bool, chunks)
	for i := 0; i < chunks; i++ {
		reversed[i] = !sorted[i] && chunkLen-balance[i] == 1
		mergeFriendly[i] = !sorted[i] && streaks[i] > mergeFriendlyThreshold
		partitionFriendly[i] = !sorted[i] && !mergeFriendly[i] &&
			(balance[i] < partitionThreshold || balance[i] >= chunkLen-partitionThreshold)
		unsorted[i] = !(sorted[i] || partitionFriendly[i] || mergeFriendly[i])
	}

	quads := make([]int, chunks+1)
	for i := 0; i < chunks; i++ {
		quads[i] = i * chunkLen
	}
	quads[chunks] = n

	for _, r := range findStreaks(reversed, quads) {
		if r != nil {
			reverseSlice(v[r[0]:r[1]])
		}
	}
	for _, r := range findStreaks(partitionFriendly, quads) {
		if r != nil {
			partitionFriendlySort(v[r[0]:r[1]], less, sortUnsorted)
		}
	}
	for _, r := range findStreaks(mergeFriendly, quads) {
		if r != nil {
			naturalMergeSort(v[r[0]:r[1]], less, scratch)
		}
	}
	for _, r := range findStreaks(unsorted, quads) {
		if r != nil {
			sortUnsorted(v[r[0]:r[1]])
		}
	}

	bounds := findRunBounds(v, chunkLen, less)
	mergeRuns(v, bounds, scratch, less)
}

// scanChunk strided-scans one chunk's share of v for inversions (an
// out-of-order adjacent pair) and whole-streak runs. The iteration
// budget is computed from the *total* length n, not chunkLen, so every
// chunk runs the identical number of rounds and no chunk's cursor ever
// crosses into its neighbor.
func scanChunk[T any](v []T, less func(a, b T) bool, start, n int) (balance, streakCount int) {
	idx := start
	i := n
	for i > chunks*(streakLen+1) {
		sum := 0
		for s := 0; s < streakLen; s++ {
			if less(v[idx+1], v[idx]) {
				sum++
			}
			idx++
		}
		balance += sum
		if sum == 0 || sum == streakLen {
			streakCount++
		}
		i -= chunks * streakLen
	}
	for i >= 2*chunks {
		if less(v[idx+1], v[idx]) {
			balance++
		}
		idx++
		i -= chunks
	}
	return balance, streakCount
}

// findStreaks coalesces properties[i]==true runs of adjacent chunks
// into a half-open [start,end) range per maximal run, indexed by the
// first chunk of that run (nil elsewhere).
func findStreaks(properties []bool, quads []int) []*[2]int {
	n := len(properties)
	streaks := make([]*[2]int, n)
	contiguousPredecessor := 0
	if properties[0] {
		streaks[0] = &[2]int{quads[0], quads[1]}
	}
	for i := 1; i < n; i++ {
		if !properties[i] {
			continue
		}
		if properties[i-1] {
			streaks[contiguousPredecessor][1] = quads[i+1]
		} else {
			streaks[i] = &[2]int{quads[i], quads[i+1]}
			contiguousPredecessor = i
		}
	}
	return streaks
}

// findRunBounds records, among the chunks' boundaries, the ones where
// the two chunks straddling it are NOT already in sorted order - i.e.
// the boundaries between maximal already-sorted runs of whole chunks,
// now that every chunk has been individually sorted above.
func findRunBounds[T any](v []T, chunkLen int, less func(a, b T) bool) []int {
	bounds := []int{0}
	for i := 1; i < chunks; i++ {
		b := i * chunkLen
		if less(v[b], v[b-1]) {
			bounds = append(bounds, b)
		}
	}
	bounds = append(bounds, len(v))
	return bounds
}

// mergeRuns reduces bounds (run boundaries over an already chunk-sorted
// v) to a single sorted run via 4-way, then 3-way, then 2-way merge
// passes, consuming the widest fan-in first so the scratch buffer is
// reused across as few rounds as possible.
func mergeRuns[T any](v []T, bounds []int, scratch *merge.Scratch[T], less func(a, b T) bool) {
	for len(bounds)-1 >= 4 {
		hi := bounds[4]
		merge.Merge(v[bounds[0]:hi], []int{0, bounds[1] - bounds[0], bounds[2] - bounds[0], bounds[3] - bounds[0], hi - bounds[0]}, scratch, less)
		bounds = append([]int{bounds[0]}, bounds[4:]...)
	}
	if len(bounds)-1 == 3 {
		hi := bounds[3]
		merge.Merge(v[bounds[0]:hi], []int{0, bounds[1] - bounds[0], bounds[2] - bounds[0], hi - bounds[0]}, scratch, less)
		bounds = []int{bounds[0], hi}
	}
	if len(bounds)-1 == 2 {
		hi := bounds[2]
		merge.Merge(v[bounds[0]:hi], []int{0, bounds[1] - bounds[0], hi - bounds[0]}, scratch, less)
	}
}

func reverseSlice[T any](v []T) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
