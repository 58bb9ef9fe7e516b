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

package engine

import (
	"github.com/ips4o-go/ips4o/internal/basecase"
	"github.com/ips4o-go/ips4o/internal/partition"
	"github.com/ips4o-go/ips4o/internal/sampler"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// Sequential drives the single-worker recursion: one LocalStorage
// reused across every level, with the unbalanced flag threading through
// to splitter selection whenever a bucket came out far larger than its
// fair share.
type Sequential[T any] struct {
	less     func(a, b T) bool
	storage  *LocalStorage[T]
	listener Listener
}

// NewSequential allocates a Sequential engine for the given comparator.
func NewSequential[T any](less func(a, b T) bool) *Sequential[T] {
	return &Sequential[T]{less: less, storage: NewLocalStorage(less, 0x2545f4914f6cdd1d)}
}

// SetListener installs an optional progress Listener.
func (this *Sequential[T]) SetListener(l Listener) {
	this.listener = l
}

// Sort sorts v in place using only the calling goroutine.
func (this *Sequential[T]) Sort(v []T) {
	seqRecurse(this.storage, this.less, this.listener, v, false, 0)
}

// seqRecurse implements one worker's recursive partition-then-recurse
// loop, shared by Sequential.Sort and by Parallel's sequential-queued
// bucket recursion - both need identical behavior over their own
// LocalStorage.
func seqRecurse[T any](ls *LocalStorage[T], less func(a, b T) bool, listener Listener, v []T, unbalanced bool, depth int) {
	if len(v) <= 2*xmath.BaseCaseSize {
		if listener != nil {
			listener.ProcessEvent(newEvent(EvtBaseCase, len(v), depth))
		}
		basecase.Sort(v, less)
		return
	}

	if listener != nil {
		listener.ProcessEvent(newEvent(EvtPartitionStart, len(v), depth))
	}

	sortSample := func(s []T) { seqRecurse(ls, less, listener, s, false, depth+1) }
	numBuckets, equalBuckets := sampler.GetSplitters(v, ls.Tree, less, ls.RNG, unbalanced, sortSample)
	ls.Tree.EqualBuckets = equalBuckets

	perBucket := ls.PerBucket[:numBuckets]
	written := partition.ClassifyLocally(v, ls.Tree, ls.WriteBuf, perBucket)

	boundaries := ls.Boundaries[:numBuckets+1]
	boundaries[0] = 0
	partition.CalculateBucketBoundaries(boundaries, numBuckets, perBucket)

	pointers := ls.Pointers[:numBuckets]
	partition.CalculateBucketPointers(boundaries, pointers, written)

	partition.PermuteSequential(v, ls.Tree, ls.SwapBuf, pointers)

	n := len(v)
	isLastLevel := n <= xmath.SingleLevelThreshold
	partition.Cleanup(v, ls.WriteBuf, boundaries, pointers, less, isLastLevel)

	if listener != nil {
		listener.ProcessEvent(newEvent(EvtPartitionEnd, n, depth))
	}

	if isLastLevel {
		return
	}

	// Every child level reuses ls.Boundaries, so keep this level's own
	// copy for the recursion loop below.
	boundaries = append([]int(nil), boundaries...)

	recurseBucket := func(i int) {
		start, end := boundaries[i], boundaries[i+1]
		size := end - start
		if size > 2*xmath.BaseCaseSize {
			newUnbalanced := size > 2*n/numBuckets
			seqRecurse(ls, less, listener, v[start:end], newUnbalanced, depth+1)
		}
	}

	step := 1
	if equalBuckets {
		step = 2
	}
	for i := 0; i < numBuckets; i += step {
		recurseBucket(i)
	}
	if equalBuckets {
		recurseBucket(numBuckets - 1)
	}
}
