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
	"golang.org/x/sync/errgroup"

	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// MoveEmptyBlocks restores the invariant the block permutation depends
// on: every bucket must consist of a run of full blocks followed by a
// run of empty ones. After local classification, a bucket's full blocks
// are scattered across whichever stripes flushed them; this copies them
// all to the front of the bucket's range and sets each bucket's pointer
// to the resulting read boundary. Runs one goroutine per bucket, joined
// once; buckets never write into each other's ranges here.
func MoveEmptyBlocks[T any](v []T, stripeBounds []int, elementsWrittenPerStripe []int, bucketBoundaries []int, pointers []buckets.Pointer, numBuckets int) {
	var g errgroup.Group
	for b := 0; b < numBuckets; b++ {
		b := b
		g.Go(func() error {
			moveEmptyBlocksForBucket(v, b, stripeBounds, elementsWrittenPerStripe, bucketBoundaries, pointers)
			return nil
		})
	}
	_ = g.Wait()
}

func moveEmptyBlocksForBucket[T any](v []T, bucketNumber int, stripeBounds []int, flushedPerStripe []int, bucketBoundaries []int, pointers []buckets.Pointer) {
	numStripes := len(stripeBounds) - 1
	firstEmptyBlock := func(stripe int) int { return stripeBounds[stripe] + flushedPerStripe[stripe] }

	bucketStart := xmath.AlignDownBlock(bucketBoundaries[bucketNumber])
	bucketEnd := xmath.AlignDownBlock(bucketBoundaries[bucketNumber+1])

	stripeRangeStart := 0
	for stripeRangeStart < numStripes && stripeBounds[stripeRangeStart+1] <= bucketStart {
		stripeRangeStart++
	}
	stripeRangeEnd := 0
	for stripeRangeEnd < numStripes && stripeBounds[stripeRangeEnd] < bucketEnd {
		stripeRangeEnd++
	}

	flushedInBucket := 0
	for s := stripeRangeStart; s < stripeRangeEnd; s++ {
		if firstEmptyBlock(s) < bucketStart {
			continue
		}
		flushEnd := min(firstEmptyBlock(s), bucketEnd)
		start := max(stripeBounds[s], bucketStart)
		flushedInBucket += flushEnd - start
	}
	firstEmptyBlockAfter := bucketStart + flushedInBucket

	var read int
	switch {
	case firstEmptyBlockAfter <= bucketStart:
		read = bucketStart
	case firstEmptyBlockAfter < bucketEnd:
		read = firstEmptyBlockAfter
	default:
		read = bucketEnd
	}
	pointers[bucketNumber].Set(bucketStart, read)

	if bucketStart == bucketEnd {
		return
	}

	reserved := 0
	for s := stripeRangeStart; s < stripeRangeEnd; s++ {
		currentlyReserved := reserved
		writePtr := max(bucketStart, firstEmptyBlock(s))
		writeEnd := min(firstEmptyBlockAfter, stripeBounds[s+1])
		readFromStripe := stripeRangeEnd

		for writePtr < writeEnd {
			readFromStripe--
			readPtr := min(firstEmptyBlock(readFromStripe), bucketEnd)
			readRangeSize := readPtr - stripeBounds[readFromStripe]
			if currentlyReserved >= readRangeSize {
				currentlyReserved -= readRangeSize
				continue
			}
			readPtr -= currentlyReserved
			readRangeSize -= currentlyReserved
			currentlyReserved = 0
			size := min(readRangeSize, writeEnd-writePtr)
			copy(v[writePtr:writePtr+size], v[readPtr-size:readPtr])
			writePtr += size
			reserved += size
		}
	}
}
