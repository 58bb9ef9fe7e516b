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

package parcore

import (
	"github.com/ips4o-go/ips4o/internal/basecase"
	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// SaveMargins reads out a bucket's head region into swap slot 0 before
// any worker's cleanup pass starts overwriting the shared block the head
// lives in, so the worker that owns that bucket's neighbor isn't racing
// the one that owns the bucket itself. ok is false if there is no head
// to save (the first block straddling firstBucket never received any
// flushed elements).
func SaveMargins[T any](v []T, firstBucket, numBuckets int, sb *buckets.SwapBuffers[T], boundaries []int, pointers []buckets.Pointer) (headBucket int, ok bool) {
	headStart := xmath.AlignDownBlock(boundaries[firstBucket])
	nextBlockBoundary := headStart + xmath.BlockSize

	bucket := firstBucket
	for bucket < numBuckets && boundaries[bucket] < nextBlockBoundary {
		sizeOfBucket := boundaries[bucket+1] - boundaries[bucket]
		if sizeOfBucket >= xmath.BlockSize {
			headBucket = bucket
			ok = true
			break
		}
		bucket++
	}
	if !ok {
		return 0, false
	}

	headEnd := boundaries[headBucket]
	if headStart >= headEnd {
		return 0, false
	}

	write, _ := pointers[headBucket].Fetch()
	if write < nextBlockBoundary {
		return 0, false
	}

	sb.Fill(0, v[headStart:headEnd])
	return headBucket, true
}

// CleanupParallel runs margin cleanup over [firstBucket, lastBucket) of
// a worker's stripe. headBucket/hasHead is this worker's own
// SaveMargins result: if the bucket at firstBucket had its head saved,
// that saved copy (rather than stripe's own, now partially overwritten,
// lower bound) is what gets written into the tail. wbs must list every
// worker's write buffers, since a bucket's unflushed remainder may be
// split across more than one worker's buffer.
func CleanupParallel[T any](stripe []T, vLen int, boundaries []int, pointers []buckets.Pointer, firstBucket, lastBucket int, wbs []*buckets.WriteBuffers[T], savedHead []T, headBucket int, hasHead bool, less func(a, b T) bool) {
	offset := boundaries[firstBucket]
	isLastLevel := vLen <= xmath.SingleLevelThreshold

	for i := lastBucket - 1; i >= firstBucket; i-- {
		start := boundaries[i]
		end := boundaries[i+1]
		write, _ := pointers[i].Fetch()
		headRangeLen := start - xmath.AlignDownBlock(start)

		var tailBeginning int
		switch {
		case write == end:
			tailBeginning = write
		case hasHead && headBucket == i:
			copy(stripe[write-offset:write-offset+len(savedHead)], savedHead)
			tailBeginning = write + len(savedHead)
		case start < write:
			headStart := xmath.AlignDownBlock(start)
			copy(stripe[write-offset:write-offset+headRangeLen], stripe[headStart-offset:start-offset])
			tailBeginning = write + headRangeLen
		default:
			tailBeginning = start
		}

		for _, wb := range wbs {
			src := wb.Get(i)
			n := len(src)
			if n == 0 {
				continue
			}
			copy(stripe[tailBeginning-offset:tailBeginning-offset+n], src)
			tailBeginning += n
		}

		if isLastLevel || end-start <= 2*xmath.BaseCaseSize {
			basecase.Sort(stripe[start-offset:end-offset], less)
		}
	}
}
