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

import "github.com/foxeye-go/corebus/bindtable"

// BindSource supplies the registry and the live peer userflags the tag 'b'
// filter consults per spec.md §4.3 ("runs named in-filter and out-filter
// bindings over each buffered line, respecting user-flags of the peer").
type BindSource struct {
	Registry *bindtable.Registry
	Flags    func() bindtable.Userflag
}

var bindConfigured BindSource

// ConfigureBind installs the bindtable registry/userflag source used by
// subsequently grown 'b' links.
func ConfigureBind(src BindSource) { bindConfigured = src }

// bindFilter is the tag 'b' eggdrop-style bindtable filter: it runs
// "in-filter" over inbound lines and "out-filter" over outbound lines,
// passing each buffered line whole (the link below it is expected to be
// the line framer, so each Recv/Send call already sees one line).
type bindFilter struct {
	sock  Sock
	below Link
	src   BindSource
}

func init() {
	Register(Factory{
		Tag: 'b',
		New: func(sock Sock, idx int, below Link) (Link, error) {
			return &bindFilter{sock: sock, below: below, src: bindConfigured}, nil
		},
	})
}

func (f *bindFilter) Tag() byte { return 'b' }

func (f *bindFilter) read(idx int, out []byte) (int, error) {
	if f.below != nil {
		return f.below.Recv(idx, out)
	}
	return f.sock.Read(idx, out)
}

func (f *bindFilter) write(idx int, buf []byte) (int, error) {
	if f.below != nil {
		return f.below.Send(idx, buf)
	}
	return f.sock.Write(idx, buf)
}

func (f *bindFilter) flags() bindtable.Userflag {
	if f.src.Flags == nil {
		return 0
	}
	return f.src.Flags()
}

// Recv runs "in-filter" over each line pulled from below before handing it
// to the caller.
func (f *bindFilter) Recv(idx int, out []byte) (int, error) {
	n, err := f.read(idx, out)
	if n == 0 || f.src.Registry == nil {
		return n, err
	}
	result, _ := f.src.Registry.Run("in-filter", f.flags(), string(out[:n]))
	copy(out, result)
	return len(result), err
}

// Send runs "out-filter" over buf before pushing it downward.
func (f *bindFilter) Send(idx int, buf []byte) (int, error) {
	if f.src.Registry == nil {
		return f.write(idx, buf)
	}
	result, _ := f.src.Registry.Run("out-filter", f.flags(), string(buf))
	n, err := f.write(idx, []byte(result))
	if err != nil {
		return 0, err
	}
	if n >= len(result) {
		return len(buf), nil
	}
	return n, nil
}

func (f *bindFilter) Close() error { return nil }
