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

package connchain_test

import (
	"testing"

	"github.com/foxeye-go/corebus/connchain"
)

// TestZlibFilterRoundTrip checks invariant 6 (spec.md §8): each Put is
// Z_SYNC_FLUSH'd independently, so a Get issued right after it inflates back
// to exactly that message's plaintext, with nothing from a later write
// bleeding into an earlier read.
func TestZlibFilterRoundTrip(t *testing.T) {
	sock := newBufSock()
	chain := connchain.New("zlib", sock, 0)
	if err := chain.Grow('Z'); err != nil {
		t.Fatalf("grow: %v", err)
	}

	for _, want := range []string{"first message", "a second, different message"} {
		if _, err := chain.Put([]byte(want)); err != nil {
			t.Fatalf("put %q: %v", want, err)
		}
		out := make([]byte, 256)
		n, err := chain.Get(out)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(out[:n]) != want {
			t.Fatalf("inflated = %q, want %q", out[:n], want)
		}
	}
}
