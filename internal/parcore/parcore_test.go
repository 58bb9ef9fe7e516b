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
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/ips4o-go/ips4o/internal/buckets"
	"github.com/ips4o-go/ips4o/internal/classify"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

func less(a, b int) bool { return a < b }

func buildTree(t *testing.T, splitters []int) *classify.Tree[int] {
	t.Helper()
	tr := classify.New(less)
	copy(tr.Splitters(), splitters)
	tr.SetSplitterLen(len(splitters))
	tr.Build()
	return tr
}

func TestClassifyStripesMatchesSequentialTotals(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	n := 8 * xmath.BlockSize
	v := make([]int, n)
	for i := range v {
		v[i] = rng.IntN(1000)
	}

	numBuckets := 4
	sorted := append([]int(nil), v...)
	slices.Sort(sorted)
	splitters := []int{sorted[n/4], sorted[n/2], sorted[3*n/4], sorted[n-1]}
	tree := buildTree(t, splitters)

	numWorkers := 3
	stripeBounds := xmath.StripeBounds(n, numWorkers)
	wbs := make([]*buckets.WriteBuffers[int], numWorkers)
	for i := range wbs {
		wbs[i] = &buckets.WriteBuffers[int]{}
	}

	results := ClassifyStripes(v, tree, numBuckets, wbs, stripeBounds)
	if len(results) != numWorkers {
		t.Fatalf("got %d stripe results, want %d", len(results), numWorkers)
	}

	sum := SumElementsPerBucket(results, numBuckets)
	total := 0
	for _, c := range sum {
		total += c
	}
	if total != n {
		t.Fatalf("summed elementsPerBucket = %d, want %d", total, n)
	}

	// Every element physically still present in v (classification
	// shuffles within stripe-local flush order but never drops anything).
	got := append([]int(nil), v...)
	want := append([]int(nil), sorted...)
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Fatalf("ClassifyStripes lost or duplicated elements")
	}
}
