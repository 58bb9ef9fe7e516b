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

package buckets

import "github.com/ips4o-go/ips4o/internal/xmath"

// SwapBuffers holds the two per-worker swap slots used during the
// cyclic-swap block permutation: one holds the block currently "in
// flight", the other receives whatever block it displaces. The length
// field marks how much of each fixed backing array is currently
// meaningful; slots are always filled whole-block except for the saved
// partial-block head a cleanup worker parks in slot 0.
type SwapBuffers[T any] struct {
	slots [2][xmath.BlockSize]T
	lens  [2]int
}

// Fill copies src (at most BlockSize elements: a whole block, or a
// partial head) into slot index and records its length.
func (this *SwapBuffers[T]) Fill(index int, src []T) {
	n := copy(this.slots[index][:], src)
	this.lens[index] = n
}

// Get returns the currently filled contents of slot index.
func (this *SwapBuffers[T]) Get(index int) []T {
	return this.slots[index][:this.lens[index]]
}
