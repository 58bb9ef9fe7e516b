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

package basecase

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func intLess(a, b int) bool { return a < b }

func TestSortEmptyAndSingleton(t *testing.T) {
	var v []int
	Sort(v, intLess)

	single := []int{1}
	Sort(single, intLess)
	if single[0] != 1 {
		t.Fatalf("Sort(singleton) mutated the only element")
	}
}

func TestSortRandomMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for trial := 0; trial < 200; trial++ {
		n := rng.IntN(32)
		v := make([]int, n)
		for i := range v {
			v[i] = rng.IntN(20)
		}
		want := append([]int(nil), v...)
		slices.Sort(want)

		Sort(v, intLess)
		if !slices.Equal(v, want) {
			t.Fatalf("Sort(%v) = %v, want %v", want, v, want)
		}
	}
}

func TestSortAlreadySorted(t *testing.T) {
	v := []int{1, 2, 3, 4, 5, 6, 7, 8}
	want := append([]int(nil), v...)
	Sort(v, intLess)
	if !slices.Equal(v, want) {
		t.Fatalf("Sort on sorted input changed it: %v", v)
	}
}

func TestSortReversed(t *testing.T) {
	v := []int{8, 7, 6, 5, 4, 3, 2, 1}
	Sort(v, intLess)
	want := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if !slices.Equal(v, want) {
		t.Fatalf("Sort(reversed) = %v, want %v", v, want)
	}
}

// A panicking comparator partway through a shift must still leave every
// original element present exactly once, via the gap guard restoring
// the lifted element on unwind.
func TestSortPanicSafety(t *testing.T) {
	v := []int{5, 4, 3, 2, 1}
	original := append([]int(nil), v...)

	calls := 0
	flaky := func(a, b int) bool {
		calls++
		if calls == 3 {
			panic(errors.New("comparator exploded"))
		}
		return a < b
	}

	func() {
		defer func() { recover() }()
		Sort(v, flaky)
	}()

	got := append([]int(nil), v...)
	want := append([]int(nil), original...)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("panic mid-sort lost or duplicated an element: v=%v, original=%v", v, original)
	}
}
