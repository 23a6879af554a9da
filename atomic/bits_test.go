/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package atomic_test

import (
	"sync"
	"testing"

	libatm "github.com/foxeye-go/corebus/atomic"
)

func TestBits_OrAndNot(t *testing.T) {
	var b libatm.Bits

	b.Or(0x1)
	b.Or(0x2)

	if !b.Has(0x3) {
		t.Fatalf("expected bits 0x3 set, got %#x", b.Load())
	}

	b.AndNot(0x1)
	if b.Has(0x1) {
		t.Fatalf("expected bit 0x1 cleared, got %#x", b.Load())
	}
	if !b.Has(0x2) {
		t.Fatalf("expected bit 0x2 to survive, got %#x", b.Load())
	}
}

func TestBits_ConcurrentOr(t *testing.T) {
	var b libatm.Bits
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n uint) {
			defer wg.Done()
			b.Or(1 << n)
		}(uint(i))
	}
	wg.Wait()

	if b.Load() != 0xFFFFFFFF {
		t.Fatalf("expected all 32 bits set, got %#x", b.Load())
	}
}
