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

// Package basecase implements the small-array sort the recursion
// bottoms out in once a range no longer benefits from partitioning
// further.
package basecase

import "github.com/ips4o-go/ips4o/internal/guard"

// Sort sorts v in place with a gap-shifting insertion sort: walk from
// the second element, shift everything greater than it one slot to the
// right, then drop it into the hole. Every lifted element is held in a
// guard.Gap for the duration of its shift - one guard re-armed per
// element, closed once on exit - so a panicking `less` midway through a
// shift still leaves v holding every original element exactly once.
func Sort[T any](v []T, less func(a, b T) bool) {
	var g guard.Gap[T]
	defer g.Close()

	for i := 1; i < len(v); i++ {
		if !less(v[i], v[i-1]) {
			continue
		}

		g.Arm(v, i, v[i])
		j := i
		for j > 0 && less(g.Elem, v[j-1]) {
			v[j] = v[j-1]
			g.MoveTo(j - 1)
			j--
		}
		v[j] = g.Elem
		g.Disarm()
	}
}
