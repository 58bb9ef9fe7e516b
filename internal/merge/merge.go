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

// Package merge implements the bottom-up multi-way merge the analyze
// router falls back to once it has tagged a chunked input as a set of
// already-sorted (or reverse-sorted) runs: 4-way, then 3-way, then
// 2-way passes reduce the run count each round until one sorted run
// remains. The body is a copy-to-scratch linear k-way merge rather
// than a branchless merge network; the network variants lean on raw
// pointer arithmetic with no safe Go equivalent.
package merge

// Scratch is the reusable scratch buffer Merge copies its input runs
// into before merging them back. Grown (never shrunk) on demand, so one
// Scratch can be reused across every merge call in a recursion.
type Scratch[T any] struct {
	buf []T
}

// Reset returns a buffer of exactly length n, growing the backing array
// if needed.
func (this *Scratch[T]) Reset(n int) []T {
	if cap(this.buf) < n {
		this.buf = make([]T, n)
	}
	return this.buf[:n]
}

// Merge merges v's already-sorted consecutive runs - described by
// bounds, where bounds[0] must be 0, bounds[len(bounds)-1] must be
// len(v), and the values in between are strictly increasing run
// boundaries - into one sorted run, in place. Any run count k =
// len(bounds)-1 is supported; the analyze router calls this with k = 4,
// then 3, then 2 as successive passes reduce the number of remaining
// runs.
//
// If less panics partway through, every element of v is guaranteed to
// still be present exactly once afterward (not necessarily in sorted
// order): a deferred recovery copies whatever each run hadn't yet
// contributed back into the unwritten tail of v before the panic
// continues to propagate.
func Merge[T any](v []T, bounds []int, scratch *Scratch[T], less func(a, b T) bool) {
	n := len(v)
	k := len(bounds) - 1
	if k <= 1 {
		return
	}

	buf := scratch.Reset(n)
	copy(buf, v)

	pos := make([]int, k)
	end := make([]int, k)
	for i := 0; i < k; i++ {
		pos[i] = bounds[i]
		end[i] = bounds[i+1]
	}

	write := 0
	defer func() {
		if r := recover(); r != nil {
			for i := 0; i < k; i++ {
				remaining := end[i] - pos[i]
				copy(v[write:write+remaining], buf[pos[i]:end[i]])
				write += remaining
			}
			panic(r)
		}
	}()

	for write < n {
		best := -1
		for i := 0; i < k; i++ {
			if pos[i] >= end[i] {
				continue
			}
			if best == -1 || less(buf[pos[i]], buf[pos[best]]) {
				best = i
			}
		}
		v[write] = buf[pos[best]]
		pos[best]++
		write++
	}
}

// QuadMerge merges the 4 runs v[:q1], v[q1:q2], v[q2:q3], v[q3:] into
// one sorted run.
func QuadMerge[T any](v []T, q1, q2, q3 int, scratch *Scratch[T], less func(a, b T) bool) {
	Merge(v, []int{0, q1, q2, q3, len(v)}, scratch, less)
}

// TripleMerge merges the 3 runs v[:t1], v[t1:t2], v[t2:] into one
// sorted run.
func TripleMerge[T any](v []T, t1, t2 int, scratch *Scratch[T], less func(a, b T) bool) {
	Merge(v, []int{0, t1, t2, len(v)}, scratch, less)
}

// DoubleMerge merges the 2 runs v[:half1], v[half1:] into one sorted
// run.
func DoubleMerge[T any](v []T, half1 int, scratch *Scratch[T], less func(a, b T) bool) {
	Merge(v, []int{0, half1, len(v)}, scratch, less)
}
