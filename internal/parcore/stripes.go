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

// Package parcore implements the parallel partitioning path: one
// goroutine per stripe for local classification, one goroutine per
// bucket for empty-block movement, one goroutine per worker for block
// permutation and margin cleanup.
package parcore

import (
	"golang.org/x/sync/errgroup"

	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/partition"
)

// StripeResult is one worker's report back from ClassifyStripes: how
// many elements it wrote into each bucket, and in total. Each goroutine
// owns a distinct result slot, so no synchronization is needed beyond
// the join.
type StripeResult struct {
	ElementsPerBucket []int
	ElementsWritten   int
}

// ClassifyStripes gives every worker an equal, block-aligned slice of v
// to classify locally (internal/partition.ClassifyLocally), one
// goroutine per stripe joined by a single errgroup.Wait. wbs must hold
// one *buckets.WriteBuffers[T] per worker (stripeBounds has
// len(wbs)+1 entries).
func ClassifyStripes[T any](v []T, tree *classify.Tree[T], numBuckets int, wbs []*buckets.WriteBuffers[T], stripeBounds []int) []StripeResult {
	numWorkers := len(stripeBounds) - 1
	results := make([]StripeResult, numWorkers)

	var g errgroup.Group
	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			stripe := v[stripeBounds[w]:stripeBounds[w+1]]
			epb := make([]int, numBuckets)
			written := partition.ClassifyLocally(stripe, tree, wbs[w], epb)
			results[w] = StripeResult{ElementsPerBucket: epb, ElementsWritten: written}
			return nil
		})
	}
	_ = g.Wait() // classification never errors; the Group only gives us the join.

	return results
}

// SumElementsPerBucket folds every stripe's per-bucket counts into one
// combined elementsPerBucket slice of length numBuckets.
func SumElementsPerBucket(results []StripeResult, numBuckets int) []int {
	sum := make([]int, numBuckets)
	for _, r := range results {
		for b := 0; b < numBuckets; b++ {
			sum[b] += r.ElementsPerBucket[b]
		}
	}
	return sum
}
