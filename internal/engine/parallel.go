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
	"github.com/creachadair/taskgroup"
	"golang.org/x/sync/errgroup"

	"github.com/ips4o-go/ips4o/internal/basecase"
	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/parcore"
	"github.com/ips4o-go/ips4o/internal/partition"
	"github.com/ips4o-go/ips4o/internal/sampler"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// Parallel drives the multi-worker recursion: one shared GlobalStorage
// (splitter tree, bucket boundaries/pointers) plus one WorkerStorage per
// worker, all allocated once and reused across every recursion level
// this call ever reaches.
type Parallel[T any] struct {
	less     func(a, b T) bool
	workers  int
	gs       *GlobalStorage[T]
	wss      []*WorkerStorage[T]
	seqLS    []*LocalStorage[T] // one per worker, for sequential-queued buckets
	sampleLS *LocalStorage[T]   // sorts the always-sequential splitter sample
	free     chan int
	listener Listener
}

// NewParallel allocates a Parallel engine with the given worker count
// (typically runtime.GOMAXPROCS(0), chosen by the caller).
func NewParallel[T any](less func(a, b T) bool, workers int) *Parallel[T] {
	if workers < 1 {
		workers = 1
	}
	wss := make([]*WorkerStorage[T], workers)
	seqLS := make([]*LocalStorage[T], workers)
	free := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wss[i] = NewWorkerStorage[T]()
		seqLS[i] = NewLocalStorage(less, uint64(i+1)*0x9e3779b97f4a7c15+1)
		free <- i
	}
	return &Parallel[T]{
		less:     less,
		workers:  workers,
		gs:       NewGlobalStorage(less, 0x853c49e6748fea9b),
		wss:      wss,
		seqLS:    seqLS,
		sampleLS: NewLocalStorage(less, 0xff51afd7ed558ccd),
		free:     free,
	}
}

// SetListener installs an optional progress Listener.
func (this *Parallel[T]) SetListener(l Listener) {
	this.listener = l
}

// Sort sorts v in place, fanning classification, block permutation, and
// bucket-recursion work out across this.workers goroutines.
func (this *Parallel[T]) Sort(v []T) {
	if len(v) <= 2*xmath.BaseCaseSize {
		basecase.Sort(v, this.less)
		return
	}
	this.parRecurse(v, 0)
}

// parRecurse is one parallel partitioning level plus recursion
// dispatch: buckets larger than n/(workers/2) recurse immediately (in
// the current goroutine, since the fan-out already happened inside
// partition); the rest are queued onto a bounded taskgroup.Group so no
// more than this.workers sequential recursions run at once.
func (this *Parallel[T]) parRecurse(v []T, depth int) {
	if this.listener != nil {
		this.listener.ProcessEvent(newEvent(EvtPartitionStart, len(v), depth))
	}
	numBuckets, equalBuckets, boundaries := this.partition(v, depth)
	if this.listener != nil {
		this.listener.ProcessEvent(newEvent(EvtPartitionEnd, len(v), depth))
	}

	if len(v) <= xmath.SingleLevelThreshold {
		return
	}

	n := len(v)
	unbalancingFactor := this.workers / 2
	if unbalancingFactor < 1 {
		unbalancingFactor = 1
	}

	type span struct{ start, end int }
	var parallelQueue, sequentialQueue []span

	addToQueue := func(i int) {
		start, end := boundaries[i], boundaries[i+1]
		size := end - start
		if size <= 2*xmath.BaseCaseSize {
			return
		}
		if size > n/unbalancingFactor {
			parallelQueue = append(parallelQueue, span{start, end})
		} else {
			sequentialQueue = append(sequentialQueue, span{start, end})
		}
	}

	step := 1
	if equalBuckets {
		step = 2
	}
	for i := 0; i < numBuckets; i += step {
		addToQueue(i)
	}
	if equalBuckets {
		addToQueue(numBuckets - 1)
	}

	for _, s := range parallelQueue {
		this.parRecurse(v[s.start:s.end], depth+1)
	}

	if len(sequentialQueue) == 0 {
		return
	}

	g, run := taskgroup.New(nil).Limit(this.workers)
	for _, s := range sequentialQueue {
		s := s
		run(func() error {
			idx := <-this.free
			defer func() { this.free <- idx }()
			seqRecurse(this.seqLS[idx], this.less, this.listener, v[s.start:s.end], false, depth+1)
			return nil
		})
	}
	_ = g.Wait()
}

// partition runs one parallel partitioning level, its five phases in
// order: sample+splitters, per-stripe local classification, empty-block
// movement, block permutation, and margin cleanup. Returns the bucket
// count, whether equal-buckets mode was enabled, and the boundaries
// this level computed (sliced into this.gs.Boundaries, valid until the
// next call to partition).
func (this *Parallel[T]) partition(v []T, depth int) (numBuckets int, equalBuckets bool, boundaries []int) {
	gs := this.gs
	sortSample := func(s []T) { seqRecurse(this.sampleLS, this.less, nil, s, false, depth+1) }
	numBuckets, equalBuckets = sampler.GetSplitters(v, gs.Tree, this.less, gs.RNG, false, sortSample)
	gs.Tree.EqualBuckets = equalBuckets

	stripeBounds := xmath.StripeBounds(len(v), this.workers)
	wbs := make([]*buckets.WriteBuffers[T], this.workers)
	sbs := make([]*buckets.SwapBuffers[T], this.workers)
	for i := 0; i < this.workers; i++ {
		wbs[i] = this.wss[i].WriteBuf
		sbs[i] = this.wss[i].SwapBuf
	}

	results := parcore.ClassifyStripes(v, gs.Tree, numBuckets, wbs, stripeBounds)
	elementsPerBucket := parcore.SumElementsPerBucket(results, numBuckets)

	boundaries = gs.Boundaries[:numBuckets+1]
	boundaries[0] = 0
	partition.CalculateBucketBoundaries(boundaries, numBuckets, elementsPerBucket)

	pointers := gs.Pointers[:numBuckets]
	elementsWrittenPerStripe := make([]int, this.workers)
	for i, r := range results {
		elementsWrittenPerStripe[i] = r.ElementsWritten
	}
	parcore.MoveEmptyBlocks(v, stripeBounds, elementsWrittenPerStripe, boundaries, pointers, numBuckets)

	boundsAligned := make([]int, numBuckets)
	for i := 0; i < numBuckets; i++ {
		boundsAligned[i] = xmath.AlignDownBlock(boundaries[i])
	}
	parcore.PermuteParallel(v, gs.Tree, sbs, pointers, boundsAligned, numBuckets)

	this.cleanup(v, boundaries, pointers, wbs, numBuckets)

	return numBuckets, equalBuckets, boundaries
}

// cleanup runs margin cleanup in parallel: each worker first saves its
// own first bucket's head (so two workers never race the same bucket's
// head region), then every worker writes back its share of buckets'
// heads/tails and base-case sorts whatever is now small enough.
func (this *Parallel[T]) cleanup(v []T, boundaries []int, pointers []buckets.Pointer, wbs []*buckets.WriteBuffers[T], numBuckets int) {
	bucketsPerWorker := (numBuckets + this.workers - 1) / this.workers
	firstBucketFor := func(w int) int {
		fb := w * bucketsPerWorker
		if fb > numBuckets {
			fb = numBuckets
		}
		return fb
	}

	savedHeads := make([][]T, this.workers)
	headBuckets := make([]int, this.workers)
	hasHeads := make([]bool, this.workers)

	var g errgroup.Group
	for w := 0; w < this.workers; w++ {
		w := w
		g.Go(func() error {
			fb := firstBucketFor(w)
			hb, ok := parcore.SaveMargins(v, fb, numBuckets, this.wss[w].SwapBuf, boundaries, pointers)
			if ok {
				saved := this.wss[w].SwapBuf.Get(0)
				savedHeads[w] = append(make([]T, 0, len(saved)), saved...)
				headBuckets[w] = hb
				hasHeads[w] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	vLen := len(v)
	stripeBoundsClean := make([]int, this.workers+1)
	for w := 0; w < this.workers; w++ {
		stripeBoundsClean[w] = boundaries[firstBucketFor(w)]
	}
	stripeBoundsClean[this.workers] = vLen

	var g2 errgroup.Group
	for w := 0; w < this.workers; w++ {
		w := w
		g2.Go(func() error {
			fb := firstBucketFor(w)
			lb := firstBucketFor(w + 1)
			stripe := v[stripeBoundsClean[w]:stripeBoundsClean[w+1]]
			parcore.CleanupParallel(stripe, vLen, boundaries, pointers, fb, lb, wbs, savedHeads[w], headBuckets[w], hasHeads[w], this.less)
			return nil
		})
	}
	_ = g2.Wait()

	for _, wb := range wbs {
		wb.Clear()
	}
}
