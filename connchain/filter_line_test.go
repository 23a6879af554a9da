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
	"bytes"
	"sync"
	"testing"

	"github.com/foxeye-go/corebus/connchain"
)

// bufSock is a minimal in-memory connchain.Sock backed by a single shared
// buffer, standing in for a loopback socket in these filter tests. A read
// against an empty buffer returns (0, nil) — "no data yet" — matching the
// non-blocking socket manager's contract rather than io.EOF.
type bufSock struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func newBufSock() *bufSock { return &bufSock{} }

func (b *bufSock) Read(idx int, out []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() == 0 {
		return 0, nil
	}
	return b.buf.Read(out)
}

func (b *bufSock) Write(idx int, buf []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(buf)
}

func (b *bufSock) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

// TestLineFilterRoundTrip is scenario S1 (spec.md §8): grow the line framer,
// send "abc\r\ndef\r\n" worth of lines over the chain, and read exactly
// "abc" then "def" then a 0-byte indication.
func TestLineFilterRoundTrip(t *testing.T) {
	sock := newBufSock()
	chain := connchain.New("s1", sock, 0)
	if err := chain.Grow('x'); err != nil {
		t.Fatalf("grow: %v", err)
	}

	if _, err := chain.Put([]byte("abc")); err != nil {
		t.Fatalf("put abc: %v", err)
	}
	if _, err := chain.Put([]byte("def")); err != nil {
		t.Fatalf("put def: %v", err)
	}
	if want, got := "abc\r\ndef\r\n", string(sock.Bytes()); want != got {
		t.Fatalf("wire = %q, want %q", got, want)
	}

	out := make([]byte, 64)
	n, err := chain.Get(out)
	if err != nil || string(out[:n]) != "abc" {
		t.Fatalf("first line = %q, err %v", out[:n], err)
	}
	n, err = chain.Get(out)
	if err != nil || string(out[:n]) != "def" {
		t.Fatalf("second line = %q, err %v", out[:n], err)
	}
	n, err = chain.Get(out)
	if err != nil || n != 0 {
		t.Fatalf("expected 0-byte indication, got n=%d err=%v", n, err)
	}
}

// TestLineFilterIdempotence checks invariant 4 (spec.md §8): for any text
// payload not containing "\r\n", outbound CRLF-append followed by inbound
// strip yields the original text unchanged.
func TestLineFilterIdempotence(t *testing.T) {
	samples := []string{"hello", "PRIVMSG #chan :hi there", "x", "a b c"}
	for _, s := range samples {
		sock := newBufSock()
		chain := connchain.New("idem", sock, 0)
		if err := chain.Grow('x'); err != nil {
			t.Fatalf("grow: %v", err)
		}
		if _, err := chain.Put([]byte(s)); err != nil {
			t.Fatalf("put %q: %v", s, err)
		}
		out := make([]byte, 256)
		n, err := chain.Get(out)
		if err != nil {
			t.Fatalf("get %q: %v", s, err)
		}
		if string(out[:n]) != s {
			t.Fatalf("round trip %q -> %q", s, out[:n])
		}
	}
}
