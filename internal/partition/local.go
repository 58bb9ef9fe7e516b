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

// Package partition implements the sequential partitioning path: local
// classification of one contiguous stripe, bucket boundary/pointer
// arithmetic, the in-place block permutation, and head/tail margin
// cleanup.
package partition

import (
	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// ClassifyLocally classifies every element of stripe with tree, buffering
// up to BlockSize elements per bucket in wb and flushing a bucket's
// buffer back into the front of stripe (in flush order, not bucket
// order) the moment it fills. It returns the total number of elements
// flushed this way - the "first empty block" boundary later calls use to
// size bucket read pointers.
func ClassifyLocally[T any](stripe []T, tree *classify.Tree[T], wb *buckets.WriteBuffers[T], elementsPerBucket []int) int {
	wb.Clear()
	for i := range elementsPerBucket {
		elementsPerBucket[i] = 0
	}

	written := 0
	insert := func(offset, bucket int) {
		newLen := wb.Push(bucket, stripe[offset])
		if newLen >= xmath.BlockSize {
			copy(stripe[written:written+xmath.BlockSize], wb.Get(bucket))
			wb.Flush(bucket)
			elementsPerBucket[bucket] += xmath.BlockSize
			written += xmath.BlockSize
		}
	}

	i := 0
	if len(stripe) > xmath.BatchSize {
		cutoff := len(stripe) - xmath.BatchSize
		for ; i <= cutoff; i += xmath.BatchSize {
			var batch [xmath.BatchSize]T
			copy(batch[:], stripe[i:i+xmath.BatchSize])
			idx := tree.ClassifyBatch(&batch)
			for j, bucket := range idx {
				insert(i+j, bucket)
			}
		}
	}
	for ; i < len(stripe); i++ {
		insert(i, tree.ClassifySingle(stripe[i]))
	}

	for b := range elementsPerBucket {
		elementsPerBucket[b] += wb.Len(b)
	}
	return written
}
