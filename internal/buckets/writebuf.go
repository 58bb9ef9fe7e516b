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

import (
	"github.com/ips4o-go/ips4o/internal/xfatal"
	"github.com/ips4o-go/ips4o/internal/xmath"
)

// WriteBuffers holds one bounded, BlockSize-capacity write buffer per
// bucket for a single worker. Push keeps its capacity check (one branch
// against a value already in a register) and turns a violation into a
// programmer-error panic via xfatal rather than silent corruption - an
// overfull buffer means local classification failed to flush, which is
// never a recoverable condition.
type WriteBuffers[T any] struct {
	bufs [xmath.MaxBucketsEqual][xmath.BlockSize]T
	lens [xmath.MaxBucketsEqual]int
}

// Clear resets every bucket's length to zero ahead of a fresh local
// classification pass.
func (this *WriteBuffers[T]) Clear() {
	for i := range this.lens {
		this.lens[i] = 0
	}
}

// Push appends elem to bucket's buffer and returns the new length. Push
// must not be called again for a bucket whose buffer is already at
// BlockSize capacity without an intervening Flush - the caller (local
// classification) guarantees this by flushing as soon as Len reaches
// BlockSize.
func (this *WriteBuffers[T]) Push(bucket int, elem T) int {
	xfatal.Invariant(this.lens[bucket] < xmath.BlockSize, "write buffer for bucket %d overflowed", bucket)
	this.bufs[bucket][this.lens[bucket]] = elem
	this.lens[bucket]++
	return this.lens[bucket]
}

// Len returns the current number of buffered elements for bucket.
func (this *WriteBuffers[T]) Len(bucket int) int {
	return this.lens[bucket]
}

// Get returns the currently buffered (unflushed) elements for bucket.
func (this *WriteBuffers[T]) Get(bucket int) []T {
	return this.bufs[bucket][:this.lens[bucket]]
}

// Flush resets bucket's buffer to empty, to be called once its full
// BlockSize contents have been copied back into the stripe.
func (this *WriteBuffers[T]) Flush(bucket int) {
	this.lens[bucket] = 0
}
