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
	"testing"

	"github.com/foxeye-go/corebus/connchain"
)

// TestTelnetThenLineOnWire is scenario S2 (spec.md §8): telnet grown below
// the line framer doubles a literal 0xFF byte in outbound data before the
// line framer's CRLF terminator reaches the wire.
func TestTelnetThenLineOnWire(t *testing.T) {
	sock := newBufSock()
	chain := connchain.New("s2", sock, 0)
	if err := chain.Grow('y'); err != nil {
		t.Fatalf("grow telnet: %v", err)
	}
	if err := chain.Grow('x'); err != nil {
		t.Fatalf("grow line: %v", err)
	}

	if _, err := chain.Put([]byte("hi\xff!")); err != nil {
		t.Fatalf("put: %v", err)
	}

	want := []byte{'h', 'i', 0xff, 0xff, '!', '\r', '\n'}
	if got := sock.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("wire = %x, want %x", got, want)
	}
}

// TestTelnetRecvRepliesAndUnescapes checks invariant 5 (spec.md §8): a
// doubled literal 0xFF unescapes to one byte, an unsolicited WILL (for a
// non-ECHO option) queues a DON'T reply, and AYT queues "Y\r\n" — both
// flushed ahead of the next outbound write.
func TestTelnetRecvRepliesAndUnescapes(t *testing.T) {
	sock := newBufSock()
	chain := connchain.New("invariant5", sock, 0)
	if err := chain.Grow('y'); err != nil {
		t.Fatalf("grow telnet: %v", err)
	}

	seed := []byte{'h', 'i', 0xff, 0xff, 0xff, 0xfb, 0x2a, 0xff, 0xf6}
	if _, err := sock.Write(0, seed); err != nil {
		t.Fatalf("seed wire: %v", err)
	}

	out := make([]byte, 32)
	n, err := chain.Get(out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if want := "hi\xff"; string(out[:n]) != want {
		t.Fatalf("recv = %q, want %q", out[:n], want)
	}

	if _, err := chain.Put(nil); err != nil {
		t.Fatalf("flush put: %v", err)
	}
	wantReply := []byte{0xff, 0xfe, 0x2a, 'Y', '\r', '\n'}
	if got := sock.Bytes(); !bytes.Equal(got, wantReply) {
		t.Fatalf("queued reply = %x, want %x", got, wantReply)
	}
}
