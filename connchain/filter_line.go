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

package connchain

import "bytes"

// lineRingSize is sized for 2*MB_LEN_MAX*MESSAGEMAX bytes per spec.md
// §4.3; MB_LEN_MAX=6 (UTF-8 worst case) and MESSAGEMAX=512 (IRC line
// limit), matching the historical tool's constants.
const lineRingSize = 2 * 6 * 512

// lineFilter is the tag 'x' line framer: inbound it produces '\n'-
// terminated lines (stripping trailing '\r'); outbound it appends CRLF.
// Grounded on ioutils/delim's buffered-reader-with-delimiter shape,
// adapted from an io.Reader wrapper to the chain's send/recv link
// signature and the ring-buffer overflow rule of spec.md §4.3.
type lineFilter struct {
	sock  Sock
	below Link

	ring    [lineRingSize]byte
	ringLen int
}

func init() {
	Register(Factory{
		Tag: 'x',
		New: func(sock Sock, idx int, below Link) (Link, error) {
			return &lineFilter{sock: sock, below: below}, nil
		},
	})
}

func (f *lineFilter) Tag() byte { return 'x' }

func (f *lineFilter) read(idx int, out []byte) (int, error) {
	if f.below != nil {
		return f.below.Recv(idx, out)
	}
	return f.sock.Read(idx, out)
}

func (f *lineFilter) write(idx int, buf []byte) (int, error) {
	if f.below != nil {
		return f.below.Send(idx, buf)
	}
	return f.sock.Write(idx, buf)
}

// Recv scans the ring for '\n' and copies out one line (without the
// trailing '\r'). If the ring fills with no '\n' found, it returns the
// filled chunk with the last byte dropped so callers never see a line
// exceeding the ring (spec.md §4.3 "Line-framer details").
func (f *lineFilter) Recv(idx int, out []byte) (int, error) {
	for {
		if nl := bytes.IndexByte(f.ring[:f.ringLen], '\n'); nl >= 0 {
			line := f.ring[:nl]
			n := len(line)
			if n > 0 && line[n-1] == '\r' {
				n--
			}
			copy(out, line[:n])
			copy(f.ring[:], f.ring[nl+1:f.ringLen])
			f.ringLen -= nl + 1
			return n, nil
		}

		if f.ringLen >= len(f.ring) {
			n := f.ringLen - 1
			copy(out, f.ring[:n])
			f.ringLen = 0
			return n, nil
		}

		buf := make([]byte, 512)
		n, err := f.read(idx, buf)
		if n > 0 {
			copy(f.ring[f.ringLen:], buf[:n])
			f.ringLen += n
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
	}
}

// Send appends CRLF and pushes the framed bytes downward in one write. It
// keeps no buffer: bytes the downward link does not accept are not retried
// on a later call, and the caller only sees the count reported below.
func (f *lineFilter) Send(idx int, buf []byte) (int, error) {
	framed := make([]byte, 0, len(buf)+2)
	framed = append(framed, buf...)
	framed = append(framed, '\r', '\n')

	n, err := f.write(idx, framed)
	if err != nil {
		return 0, err
	}
	if n >= len(buf) {
		return len(buf), nil
	}
	return n, nil
}

func (f *lineFilter) Close() error { return nil }
