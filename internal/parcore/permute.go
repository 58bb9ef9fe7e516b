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
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// bucketRegion is one bucket's block-aligned slice of v, guarded by its
// own mutex. Every worker touching this bucket during permutation locks
// it for exactly one dec-read-and-fill or inc-write-and-swap at a time;
// no worker ever holds two bucket locks at once, which is what keeps
// the phase deadlock-free.
type bucketRegion[T any] struct {
	mu     sync.Mutex
	data   []T
	offset int
}

// PermuteParallel runs the cyclic block permutation with numWorkers
// goroutines sharing numBuckets bucket regions, each worker starting at
// a different bucket (spread by bucketsPerWorker) to reduce contention
// on any one bucket's lock. sbs must hold one *buckets.SwapBuffers[T]
// per worker.
func PermuteParallel[T any](v []T, tree *classify.Tree[T], sbs []*buckets.SwapBuffers[T], pointers []buckets.Pointer, bucketBoundsAligned []int, numBuckets int) {
	regions := make([]*bucketRegion[T], numBuckets)
	for i := 0; i < numBuckets; i++ {
		start := bucketBoundsAligned[i]
		end := len(v)
		if i+1 < numBuckets {
			end = bucketBoundsAligned[i+1]
		}
		regions[i] = &bucketRegion[T]{data: v[start:end], offset: start}
	}

	numWorkers := len(sbs)
	bucketsPerWorker := (numBuckets + numWorkers - 1) / numWorkers

	var g errgroup.Group
	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			myFirst := w * bucketsPerWorker
			if myFirst >= numBuckets {
				return nil
			}
			permuteWorker(regions, tree, sbs[w], pointers, myFirst, numBuckets)
			return nil
		})
	}
	_ = g.Wait()
}

func permuteWorker[T any](regions []*bucketRegion[T], tree *classify.Tree[T], sb *buckets.SwapBuffers[T], pointers []buckets.Pointer, startingBucket, numBuckets int) {
	for bucket := 0; bucket < numBuckets; bucket++ {
		currentBucket := (startingBucket + bucket) % numBuckets
		for classifyAndReadBlockParallel(regions, sb, pointers, currentBucket) {
			currentSwap := 0
			for {
				dest := tree.ClassifySingle(sb.Get(currentSwap)[0])
				performedSwap := swapBlockParallel(regions, sb, pointers, dest, currentSwap)
				currentSwap = 1 - currentSwap
				if !performedSwap {
					break
				}
			}
		}
	}
}

func classifyAndReadBlockParallel[T any](regions []*bucketRegion[T], sb *buckets.SwapBuffers[T], pointers []buckets.Pointer, readBucket int) bool {
	r := regions[readBucket]
	r.mu.Lock()
	defer r.mu.Unlock()

	write, read, ok := pointers[readBucket].DecRead()
	if !ok || read < write {
		return false
	}
	localRead := read - r.offset
	sb.Fill(0, r.data[localRead:localRead+xmath.BlockSize])
	return true
}

func swapBlockParallel[T any](regions []*bucketRegion[T], sb *buckets.SwapBuffers[T], pointers []buckets.Pointer, dest, currentSwap int) bool {
	r := regions[dest]
	r.mu.Lock()
	defer r.mu.Unlock()

	write, read := pointers[dest].IncWrite()
	localWrite := write - r.offset
	if write > read {
		copy(r.data[localWrite-xmath.BlockSize:localWrite], sb.Get(currentSwap))
		return false
	}
	sb.Fill(1-currentSwap, r.data[localWrite-xmath.BlockSize:localWrite])
	copy(r.data[localWrite-xmath.BlockSize:localWrite], sb.Get(currentSwap))
	return true
}
