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

// Package sampler picks the splitter sample a recursion level classifies
// against: either an equidistant stride (the common, already-shuffled
// case) or a randomized pick (used once a level is flagged "unbalanced",
// i.e. a previous split put far more than its fair share of elements
// into one bucket).
package sampler

import (
	"math/rand/v2"

	"github.com/ips4o-go/ips4o/internal/xmath"
)

// SelectEquidistant swaps v[i] with v[i*step] for i in [0, sampleSize),
// where step = len(v)/sampleSize, gathering an evenly spaced sample into
// the front of v.
func SelectEquidistant[T any](v []T, sampleSize int) {
	step := len(v) / sampleSize
	idx := 0
	for i := 0; idx < sampleSize; i += step {
		v[idx], v[i] = v[i], v[idx]
		idx++
	}
}

// SelectRandom swaps v[i] with a uniformly random v[j], j in [i, len(v)),
// for i in [0, sampleSize), gathering a random sample into the front of
// v without allocating.
func SelectRandom[T any](v []T, sampleSize int, rng *rand.Rand) {
	for i := 0; i < sampleSize; i++ {
		j := i + rng.IntN(len(v)-i)
		v[i], v[j] = v[j], v[i]
	}
}

// oversamplingFactor returns the oversampling step size, a fixed
// fraction of log2(n), floored at 1 so a sample is always taken.
func oversamplingFactor(n int) int {
	f := xmath.OversamplingFactorPercent * xmath.Log2NoCheck(uint32(n)) / 100
	if f < 1 {
		return 1
	}
	return int(f)
}

// Tree is the subset of classify.Tree's surface GetSplitters needs. It
// is expressed as an interface, rather than importing internal/classify
// directly, purely so internal/engine can wire a concrete
// *classify.Tree[T] in without this package and internal/classify ever
// needing to know about each other's other callers.
type Tree[T any] interface {
	Splitters() []T
	SetSplitterLen(n int)
	Build()
}

// GetSplitters draws a sample from v (equidistant, or random if
// unbalanced is set), sorts it with sortSample, and fills tree's
// splitter slice with the distinct values found at every oversampling
// stride. It returns the bucket count for this level (a power of two)
// and whether equal-buckets mode should be enabled: the splitter slice
// is padded up to the next power of two with copies of the last
// distinct splitter, and equal buckets turn on once sampling fell well
// short of k-1 distinct splitters.
func GetSplitters[T any](v []T, tree Tree[T], less func(a, b T) bool, rng *rand.Rand, unbalanced bool, sortSample func([]T)) (numBuckets int, equalBuckets bool) {
	n := len(v)
	logBuckets := xmath.LogBuckets(n)
	wantBuckets := 1 << logBuckets
	step := oversamplingFactor(n)

	sampleSize := step*wantBuckets - 1
	if half := n / 2; sampleSize > half {
		sampleSize = half
	}

	if unbalanced {
		SelectRandom(v, sampleSize, rng)
	} else {
		SelectEquidistant(v, sampleSize)
	}
	sortSample(v[:sampleSize])

	set := tree.Splitters()
	current := step - 1
	currentIdx := 1
	set[0] = v[current]
	for i := 2; i < wantBuckets; i++ {
		current += step
		if less(set[currentIdx-1], v[current]) {
			set[currentIdx] = v[current]
			currentIdx++
		}
	}

	splitterCount := currentIdx
	maxSplitters := wantBuckets - 1
	equalBuckets = xmath.AllowEqualBuckets && maxSplitters-splitterCount >= xmath.EqualBucketThreshold

	// Round the distinct-splitter count up to the next power of two,
	// padding the tail with the last distinct splitter; the padded
	// buckets stay empty, they only give the tree a full shape.
	finalLogBuckets := xmath.Log2NoCheck(uint32(splitterCount)) + 1
	finalBuckets := 1 << finalLogBuckets
	for i := currentIdx; i < finalBuckets; i++ {
		set[i] = set[currentIdx-1]
	}

	tree.SetSplitterLen(finalBuckets)
	tree.Build()

	numBuckets = finalBuckets
	if equalBuckets {
		numBuckets <<= 1
	}
	return numBuckets, equalBuckets
}
