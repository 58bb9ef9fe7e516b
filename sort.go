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

package ips4o

import (
	"cmp"
	"runtime"
	"unsafe"

	"github.com/ips4o-go/ips4o/internal/analyze"
	"github.com/ips4o-go/ips4o/internal/engine"
	"github.com/ips4o-go/ips4o/internal/merge"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// Sort sorts s in ascending order using the natural ordering of its
// elements.
func Sort[T cmp.Ordered](s []T) {
	SortFunc(s, func(a, b T) bool { return a < b })
}

// SortFunc sorts s in place using less as a strict-less predicate. less
// must be a strict weak order: irreflexive, asymmetric, and transitive.
// If a caller only has a three-way comparator cmp(a, b T) int (negative,
// zero, positive), adapt it as
//
//	SortFunc(s, func(a, b T) bool { return cmp(a, b) < 0 })
//
// s is sorted using only the calling goroutine; see SortParallelFunc to
// use every available worker.
func SortFunc[T any](s []T, less func(a, b T) bool) {
	if zeroSized[T]() || len(s) < 2 {
		return
	}
	scratch := &merge.Scratch[T]{}
	seq := engine.NewSequential(less)
	analyze.Analyze(s, less, seq.Sort, scratch)
}

// SortKeyFunc sorts s in ascending order of key(element).
func SortKeyFunc[T any, K cmp.Ordered](s []T, key func(T) K) {
	SortFunc(s, func(a, b T) bool { return key(a) < key(b) })
}

// SortParallel sorts s in ascending order of its natural ordering, using
// the thread pool when s is large enough to benefit from it.
func SortParallel[T cmp.Ordered](s []T) {
	SortParallelFunc(s, func(a, b T) bool { return a < b })
}

// SortParallelFunc is SortFunc, but fans classification, block
// permutation, and bucket recursion out across runtime.GOMAXPROCS(0)
// goroutines once s is large enough that the coordination overhead pays
// for itself. Smaller inputs fall back to the single-goroutine path.
func SortParallelFunc[T any](s []T, less func(a, b T) bool) {
	if zeroSized[T]() || len(s) < 2 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 2 || len(s) <= xmath.TwoLevelThreshold {
		SortFunc(s, less)
		return
	}

	scratch := &merge.Scratch[T]{}
	par := engine.NewParallel(less, workers)
	analyze.Analyze(s, less, par.Sort, scratch)
}

// zeroSized reports whether T's elements occupy no storage (e.g.
// struct{}), in which case every permutation of s is already sorted and
// sorting is a no-op.
func zeroSized[T any]() bool {
	var zero T
	return unsafe.Sizeof(zero) == 0
}
