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

package partition

import (
	"github.com/ips4o-go/ips4o/internal/basecase"
	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// Cleanup closes out every bucket's "margins" once the block permutation
// has placed every full block: the head (a partial block before the
// bucket's start, left behind if nothing was ever written into it) and
// the tail (whatever didn't fill a full block, still sitting in wb),
// then base-case sorts the bucket directly if it's small enough or this
// is the last partitioning level the recursion will ever reach.
func Cleanup[T any](v []T, wb *buckets.WriteBuffers[T], boundaries []int, pointers []buckets.Pointer, less func(a, b T) bool, isLastLevel bool) {
	for i := len(pointers) - 1; i >= 0; i-- {
		start := boundaries[i]
		end := boundaries[i+1]
		write, _ := pointers[i].Fetch()
		headStart := xmath.AlignDownBlock(start)

		var tailBeginning int
		switch {
		case write == end:
			// end is block-aligned and its block was written; write only
			// grows when a block lands, so it can't equal end otherwise.
			tailBeginning = write
		case start < write:
			// At least one block was written back into v, filling the head.
			n := start - headStart
			copy(v[write:write+n], v[headStart:start])
			tailBeginning = write + n
		default:
			// No block was flushed into this bucket at all.
			tailBeginning = start
		}

		tail := v[tailBeginning:end]
		copy(tail, wb.Get(i))

		if isLastLevel || end-start <= 2*xmath.BaseCaseSize {
			basecase.Sort(v[start:end], less)
		}
	}
}
