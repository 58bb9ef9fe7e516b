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

// Package engine ties every other internal package together into the
// recursion scheduler: Sequential drives the single-worker recursion,
// Parallel drives the multi-worker one, and LocalStorage/GlobalStorage/
// WorkerStorage hold the reusable buffers both depend on, allocated
// once at the start of a sort and reused across every recursion level.
package engine

import (
	"math/rand/v2"

	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// LocalStorage bundles every piece of per-worker state one sequential
// recursion needs, sized once for the maximum bucket count and reused
// across every level that worker ever partitions.
type LocalStorage[T any] struct {
	Tree       *classify.Tree[T]
	WriteBuf   *buckets.WriteBuffers[T]
	SwapBuf    *buckets.SwapBuffers[T]
	Boundaries []int
	Pointers   []buckets.Pointer
	PerBucket  []int
	RNG        *rand.Rand
}

// NewLocalStorage allocates a LocalStorage for the given comparator.
// seed drives the PRNG behind the "unbalanced" splitter sampling path.
func NewLocalStorage[T any](less func(a, b T) bool, seed uint64) *LocalStorage[T] {
	return &LocalStorage[T]{
		Tree:       classify.New(less),
		WriteBuf:   &buckets.WriteBuffers[T]{},
		SwapBuf:    &buckets.SwapBuffers[T]{},
		Boundaries: make([]int, xmath.MaxBucketsEqual+1),
		Pointers:   make([]buckets.Pointer, xmath.MaxBucketsEqual),
		PerBucket:  make([]int, xmath.MaxBucketsEqual),
		RNG:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// GlobalStorage holds the state shared by every worker during one
// parallel partitioning level: the splitter tree (read-only once built),
// the bucket boundaries, and the bucket pointers.
type GlobalStorage[T any] struct {
	Tree       *classify.Tree[T]
	Boundaries []int
	Pointers   []buckets.Pointer
	RNG        *rand.Rand
}

// NewGlobalStorage allocates a GlobalStorage for the given comparator.
func NewGlobalStorage[T any](less func(a, b T) bool, seed uint64) *GlobalStorage[T] {
	return &GlobalStorage[T]{
		Tree:       classify.New(less),
		Boundaries: make([]int, xmath.MaxBucketsEqual+1),
		Pointers:   make([]buckets.Pointer, xmath.MaxBucketsEqual),
		RNG:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// WorkerStorage holds one worker's share of the per-worker buffers a
// parallel partitioning level needs: its stripe's write buffers, and its
// swap buffers for block permutation and margin cleanup. Split out from
// GlobalStorage (rather than duplicating a full LocalStorage per worker)
// because the splitter tree and bucket boundaries/pointers are shared,
// not per-worker, in the parallel path.
type WorkerStorage[T any] struct {
	WriteBuf *buckets.WriteBuffers[T]
	SwapBuf  *buckets.SwapBuffers[T]
}

// NewWorkerStorage allocates a WorkerStorage.
func NewWorkerStorage[T any]() *WorkerStorage[T] {
	return &WorkerStorage[T]{
		WriteBuf: &buckets.WriteBuffers[T]{},
		SwapBuf:  &buckets.SwapBuffers[T]{},
	}
}
