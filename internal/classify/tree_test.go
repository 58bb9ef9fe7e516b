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

package classify

import (
	"math/rand/v2"
	"testing"

	"github.com/ips4o-go/ips4o/internal/xmath"
)

func less(a, b int) bool { return a < b }

func buildTree(t *testing.T, splitters []int) *Tree[int] {
	t.Helper()
	tr := New(less)
	copy(tr.Splitters(), splitters)
	tr.SetSplitterLen(len(splitters))
	tr.Build()
	return tr
}

// The classifier must be a monotone map from value space to bucket
// index - as x increases, ClassifySingle(x) never decreases, and every
// bucket index returned lies in [0, k). (The exact side a value tied
// with a splitter lands on is an implementation convention; only the
// open interior of each bucket is pinned down.)
func TestClassifySingleMonotone(t *testing.T) {
	splitters := []int{10, 20, 30, 40, 50, 60, 70, 80}
	tr := buildTree(t, splitters)
	k := len(splitters)

	prevBucket := -1
	for x := -5; x <= 95; x++ {
		b := tr.ClassifySingle(x)
		if b < 0 || b >= k {
			t.Fatalf("ClassifySingle(%d) = %d out of range [0,%d)", x, b, k)
		}
		if b < prevBucket {
			t.Fatalf("ClassifySingle not monotone: x=%d gave bucket %d after a smaller x gave %d", x, b, prevBucket)
		}
		prevBucket = b
	}
	if got := tr.ClassifySingle(-100); got != 0 {
		t.Fatalf("smallest values should land in bucket 0, got %d", got)
	}
	if got := tr.ClassifySingle(1000); got != k-1 {
		t.Fatalf("largest values should land in the last bucket, got %d, want %d", got, k-1)
	}
}

func TestClassifySingleAndBatchAgree(t *testing.T) {
	splitters := []int{5, 15, 25, 35}
	tr := buildTree(t, splitters)

	rng := rand.New(rand.NewPCG(2, 2))
	for trial := 0; trial < 1000; trial++ {
		var batch [xmath.BatchSize]int
		var want [xmath.BatchSize]int
		for i := range batch {
			batch[i] = rng.IntN(60)
			want[i] = tr.ClassifySingle(batch[i])
		}
		got := tr.ClassifyBatch(&batch)
		if got != want {
			t.Fatalf("ClassifyBatch(%v) = %v, want %v", batch, got, want)
		}
	}
}

func TestClassifyEqualBucketsAreOdd(t *testing.T) {
	splitters := []int{10, 20, 30, 40}
	tr := buildTree(t, splitters)
	tr.EqualBuckets = true

	// With k=4 the tree is built from the first k-1 splitters (10, 20,
	// 30). A value equal to one of them must land in an odd bucket, and
	// a value strictly between two of them must land in an even one.
	equalBucket := tr.ClassifySingle(20)
	if equalBucket%2 == 0 {
		t.Fatalf("value equal to a splitter classified into even bucket %d under equal_buckets", equalBucket)
	}
	betweenBucket := tr.ClassifySingle(15)
	if betweenBucket%2 != 0 {
		t.Fatalf("value strictly between splitters classified into odd bucket %d", betweenBucket)
	}
}

func TestNumBuckets(t *testing.T) {
	tr := buildTree(t, []int{1, 2, 3, 4, 5, 6, 7, 8})
	if got := tr.NumBuckets(); got != 8 {
		t.Fatalf("NumBuckets() = %d, want 8", got)
	}
	tr.EqualBuckets = true
	if got := tr.NumBuckets(); got != 16 {
		t.Fatalf("NumBuckets() with equal buckets = %d, want 16", got)
	}
}
