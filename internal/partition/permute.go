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
	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// PermuteSequential performs the in-place cyclic block permutation:
// repeatedly pull a not-yet-placed block out of some bucket's unread
// region, classify its first element, and swap it into its destination
// bucket's next write slot, chasing the displaced block in turn. Each
// full block is read out and written back at most once per chase, so
// total block writes stay within twice the full-block count.
func PermuteSequential[T any](v []T, tree *classify.Tree[T], sb *buckets.SwapBuffers[T], pointers []buckets.Pointer) {
	n := len(pointers)
	for bucket := 0; bucket < n; bucket++ {
		for classifyAndReadBlock(v, sb, pointers, bucket) {
			currentSwap := 0
			for {
				dest := tree.ClassifySingle(sb.Get(currentSwap)[0])
				performedSwap := swapBlock(v, sb, pointers, dest, currentSwap)
				currentSwap = 1 - currentSwap
				if !performedSwap {
					break
				}
			}
		}
	}
}

// classifyAndReadBlock pulls the next unread block out of readBucket's
// region into swap slot 0, returning false once the bucket has no more
// unread blocks. Classification of the block is left to the swap loop,
// which looks at the held block's first element each round anyway.
func classifyAndReadBlock[T any](v []T, sb *buckets.SwapBuffers[T], pointers []buckets.Pointer, readBucket int) bool {
	write, read, ok := pointers[readBucket].DecRead()
	if !ok || read < write {
		return false
	}
	sb.Fill(0, v[read:read+xmath.BlockSize])
	return true
}

// swapBlock writes the block held in swap slot currentSwap into dest's
// next write slot. If that slot was empty, the write completes and the
// chase ends (false). Otherwise the block that occupied it is lifted
// into the other swap slot first, and the chase continues (true).
func swapBlock[T any](v []T, sb *buckets.SwapBuffers[T], pointers []buckets.Pointer, dest, currentSwap int) bool {
	write, read := pointers[dest].IncWrite()
	if write > read {
		copy(v[write-xmath.BlockSize:write], sb.Get(currentSwap))
		return false
	}
	sb.Fill(1-currentSwap, v[write-xmath.BlockSize:write])
	copy(v[write-xmath.BlockSize:write], sb.Get(currentSwap))
	return true
}
