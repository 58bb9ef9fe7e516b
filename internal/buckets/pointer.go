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

// Package buckets holds the per-bucket shared state used during block
// permutation: the atomic (write, read) pointer pair, the per-worker
// swap buffers used to shuttle blocks between buckets, and the bounded
// per-(worker,bucket) write buffers used during local classification.
package buckets

import (
	"sync/atomic"

	"github.com/ips4o-go/ips4o/internal/xmath"
)

// Pointer is the atomic (write, read) pair guarding one bucket's range
// during block permutation: blocks below write are already correctly
// placed, blocks at or above read are still candidates to be read out.
// A single 128-bit atomic word would let a fetch-add on one half never
// race the other, but no maintained Go package exposes one, so the two
// halves are independent 64-bit atomics. Each half is only ever touched
// by fetch-add/fetch-sub, never a read-modify-write that spans both, so
// splitting them loses nothing the single-word packing needed - the
// sequential path has no concurrency at all, and the parallel path
// serializes both halves under the owning bucket's lock.
type Pointer struct {
	write atomic.Uint64
	read  atomic.Uint64
}

// Set initializes the pointer to (write, read). write and read must
// both be multiples of xmath.BlockSize.
func (this *Pointer) Set(write, read int) {
	this.write.Store(uint64(write))
	this.read.Store(uint64(read))
}

// Fetch loads both halves.
func (this *Pointer) Fetch() (write, read int) {
	return int(this.write.Load()), int(this.read.Load())
}

// IncWrite adds BlockSize to the write half and returns the
// post-increment (write, read) pair.
func (this *Pointer) IncWrite() (write, read int) {
	w := this.write.Add(xmath.BlockSize)
	r := this.read.Load()
	return int(w), int(r)
}

// DecRead subtracts BlockSize from the read half. ok is false if the
// pre-decrement read was already below BlockSize (exhausted); the
// subtraction is performed unconditionally either way, and the read
// half is treated as a signed quantity so repeated calls past
// exhaustion keep reporting !ok instead of wrapping back into range.
// Callers stop issuing DecRead for a bucket once they observe !ok, so
// the read half never needs to be restored.
func (this *Pointer) DecRead() (write, read int, ok bool) {
	after := this.read.Add(^uint64(xmath.BlockSize - 1)) // after == oldRead - BlockSize (mod 2^64)
	w := int(this.write.Load())
	preRead := int64(after) + xmath.BlockSize // reconstructs oldRead, negative once exhausted
	if preRead < xmath.BlockSize {
		return w, 0, false
	}
	return w, int(preRead - xmath.BlockSize), true
}
