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
	"sync"
	"testing"

	"github.com/ips4o-go/ips4o/internal/xmath"
)

func TestPointerSetFetch(t *testing.T) {
	var p Pointer
	p.Set(3*xmath.BlockSize, 7*xmath.BlockSize)
	w, r := p.Fetch()
	if w != 3*xmath.BlockSize || r != 7*xmath.BlockSize {
		t.Fatalf("Fetch() = (%d,%d), want (%d,%d)", w, r, 3*xmath.BlockSize, 7*xmath.BlockSize)
	}
}

func TestPointerIncWriteMonotone(t *testing.T) {
	var p Pointer
	p.Set(0, 4*xmath.BlockSize)
	for i := 1; i <= 4; i++ {
		w, r := p.IncWrite()
		if w != i*xmath.BlockSize {
			t.Fatalf("IncWrite #%d write=%d, want %d", i, w, i*xmath.BlockSize)
		}
		if r != 4*xmath.BlockSize {
			t.Fatalf("IncWrite #%d read=%d, want unchanged %d", i, r, 4*xmath.BlockSize)
		}
	}
}

// IncWrite must be safe under concurrent use from multiple goroutines: the
// write half is a fetch-add, so N concurrent increments must yield exactly
// N distinct, block-spaced write values with no repeats.
func TestPointerIncWriteConcurrent(t *testing.T) {
	var p Pointer
	p.Set(0, 0)

	const n = 200
	seen := make([]int, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			w, _ := p.IncWrite()
			seen[i] = w
		}()
	}
	wg.Wait()

	index := make(map[int]bool, n)
	for _, w := range seen {
		if w%xmath.BlockSize != 0 {
			t.Fatalf("write value %d is not block-aligned", w)
		}
		if index[w] {
			t.Fatalf("write value %d produced twice: IncWrite is not exclusive", w)
		}
		index[w] = true
	}
	if wFinal, _ := p.Fetch(); wFinal != n*xmath.BlockSize {
		t.Fatalf("final write pointer = %d, want %d", wFinal, n*xmath.BlockSize)
	}
}

func TestPointerDecReadExhaustion(t *testing.T) {
	var p Pointer
	p.Set(0, 2*xmath.BlockSize)

	_, r, ok := p.DecRead()
	if !ok || r != xmath.BlockSize {
		t.Fatalf("DecRead #1 = (%d,%v), want (%d,true)", r, ok, xmath.BlockSize)
	}
	_, r, ok = p.DecRead()
	if !ok || r != 0 {
		t.Fatalf("DecRead #2 = (%d,%v), want (0,true)", r, ok)
	}
	_, _, ok = p.DecRead()
	if ok {
		t.Fatalf("DecRead past exhaustion reported ok, want false")
	}
}

func TestSwapBuffersFillGet(t *testing.T) {
	var sb SwapBuffers[int]
	src := make([]int, xmath.BlockSize)
	for i := range src {
		src[i] = i
	}
	sb.Fill(0, src)
	sb.Fill(1, src[:3])

	got0 := sb.Get(0)
	if len(got0) != xmath.BlockSize {
		t.Fatalf("slot 0 length = %d, want %d", len(got0), xmath.BlockSize)
	}
	for i, v := range got0 {
		if v != i {
			t.Fatalf("slot 0[%d] = %d, want %d", i, v, i)
		}
	}
	got1 := sb.Get(1)
	if len(got1) != 3 {
		t.Fatalf("slot 1 length = %d, want 3", len(got1))
	}
}

func TestWriteBuffersPushFlush(t *testing.T) {
	var wb WriteBuffers[int]
	wb.Clear()

	for i := 0; i < 5; i++ {
		n := wb.Push(2, i*10)
		if n != i+1 {
			t.Fatalf("Push #%d returned length %d, want %d", i, n, i+1)
		}
	}
	if got := wb.Len(2); got != 5 {
		t.Fatalf("Len(2) = %d, want 5", got)
	}
	got := wb.Get(2)
	for i, v := range got {
		if v != i*10 {
			t.Fatalf("Get(2)[%d] = %d, want %d", i, v, i*10)
		}
	}

	wb.Flush(2)
	if got := wb.Len(2); got != 0 {
		t.Fatalf("Len(2) after Flush = %d, want 0", got)
	}
	if got := len(wb.Get(2)); got != 0 {
		t.Fatalf("Get(2) after Flush has length %d, want 0", got)
	}

	if got := wb.Len(0); got != 0 {
		t.Fatalf("bucket 0 untouched, Len = %d, want 0", got)
	}
}

func TestWriteBuffersOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Push past BlockSize capacity did not panic")
		}
	}()
	var wb WriteBuffers[int]
	for i := 0; i <= xmath.BlockSize; i++ {
		wb.Push(0, i)
	}
}
