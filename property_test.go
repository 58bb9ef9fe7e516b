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
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/ips4o-go/ips4o/internal/xmath"
)

// lengths covers every boundary the engine switches behavior at: the
// base case, one block, the single- and two-level partitioning
// thresholds, and the empty/singleton degenerate cases.
func lengths() []int {
	return []int{
		0, 1,
		xmath.BaseCaseSize, xmath.BaseCaseSize + 1,
		xmath.BlockSize - 1, xmath.BlockSize, xmath.BlockSize + 1,
		xmath.SingleLevelThreshold - 1, xmath.SingleLevelThreshold + 1,
		xmath.TwoLevelThreshold - 1, xmath.TwoLevelThreshold + 1,
		1 << 20,
	}
}

// distribution builds one input of length n for the named shape, seeded
// deterministically so a failing case is reproducible.
func distribution(name string, n int, seed uint64) []int64 {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	v := make([]int64, n)
	switch name {
	case "uniform":
		for i := range v {
			v[i] = rng.Int64N(1 << 40)
		}
	case "all-equal":
		for i := range v {
			v[i] = 7
		}
	case "already-sorted":
		for i := range v {
			v[i] = int64(i)
		}
	case "reverse-sorted":
		for i := range v {
			v[i] = int64(n - i)
		}
	case "near-sorted":
		for i := range v {
			v[i] = int64(i)
		}
		swaps := int(isqrt(n))
		for i := 0; i < swaps && n > 1; i++ {
			a := rng.IntN(n)
			b := rng.IntN(n)
			v[a], v[b] = v[b], v[a]
		}
	case "exponential":
		for i := range v {
			u := rng.Float64()
			if u <= 0 {
				u = 1e-12
			}
			v[i] = int64(-1e6 * logApprox(u))
		}
	case "many-duplicates":
		for i := range v {
			v[i] = rng.Int64N(8)
		}
	}
	return v
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// logApprox is a tiny natural-log approximation good enough to shape an
// exponential distribution's tail for test data; it need not be precise.
func logApprox(x float64) float64 {
	// ln(x) via a handful of Newton steps on exp, starting from a crude
	// guess - avoids pulling in "math" purely for test fixture data.
	if x <= 0 {
		return -40
	}
	guess := 0.0
	for i := 0; i < 40; i++ {
		e := expApprox(guess)
		guess -= (e - x) / e
	}
	return guess
}

func expApprox(x float64) float64 {
	sum, term := 1.0, 1.0
	for i := 1; i < 30; i++ {
		term *= x / float64(i)
		sum += term
	}
	return sum
}

func TestSortPropertyInvariants(t *testing.T) {
	shapes := []string{
		"uniform", "all-equal", "already-sorted", "reverse-sorted",
		"near-sorted", "exponential", "many-duplicates",
	}

	for _, n := range lengths() {
		if n > 1<<17 && testing.Short() {
			continue
		}
		for _, shape := range shapes {
			n, shape := n, shape
			t.Run(shape, func(t *testing.T) {
				v := distribution(shape, n, uint64(n)*31+uint64(len(shape)))
				original := append([]int64(nil), v...)

				Sort(v)

				// Invariant 1: sortedness.
				for i := 1; i < len(v); i++ {
					if v[i] < v[i-1] {
						t.Fatalf("%s n=%d: not sorted at index %d: %v, %v", shape, n, i, v[i-1], v[i])
					}
				}

				// Invariant 2: permutation (same multiset).
				if !sameMultiset(original, v) {
					t.Fatalf("%s n=%d: sort did not preserve the multiset of elements", shape, n)
				}

				// Invariant 3: idempotence.
				again := append([]int64(nil), v...)
				Sort(again)
				if !slices.Equal(again, v) {
					t.Fatalf("%s n=%d: sort(sort(v)) != sort(v)", shape, n)
				}
			})
		}
	}
}

func sameMultiset(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]int64(nil), a...)
	sb := append([]int64(nil), b...)
	slices.Sort(sa)
	slices.Sort(sb)
	return slices.Equal(sa, sb)
}
