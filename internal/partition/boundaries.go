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
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// CalculateBucketBoundaries turns elementsPerBucket counts into a
// prefix-sum boundaries slice (boundaries[0] must already be 0;
// boundaries must have room for numBuckets+1 entries).
func CalculateBucketBoundaries(boundaries []int, numBuckets int, elementsPerBucket []int) {
	sum := 0
	for i := 0; i < numBuckets; i++ {
		sum += elementsPerBucket[i]
		boundaries[i+1] = sum
	}
}

// CalculateBucketPointers initializes one atomic pointer per bucket: the
// write half starts at the bucket's boundary rounded down to the
// previous block, the read half at the next bucket's boundary rounded
// down, capped at firstEmptyBlock (the count of elements already
// flushed to the front of the stripe during local classification).
func CalculateBucketPointers(boundaries []int, pointers []buckets.Pointer, firstEmptyBlock int) {
	for i := range pointers {
		write := xmath.AlignDownBlock(boundaries[i])
		read := xmath.AlignDownBlock(boundaries[i+1])
		if read > firstEmptyBlock {
			read = firstEmptyBlock
		}
		pointers[i].Set(write, read)
	}
}
