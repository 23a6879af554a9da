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

// RFC 854 telnet command bytes.
const (
	telIAC  = 0xff
	telWILL = 0xfb
	telWONT = 0xfc
	telDO   = 0xfd
	telDONT = 0xfe
	telAYT  = 0xf6
)

// telnetFilter is the tag 'y' RFC 854 processor. No pack library
// implements telnet option negotiation, so this filter is stdlib-only by
// necessity (spec.md §4.3 "Telnet details").
type telnetFilter struct {
	sock  Sock
	below Link

	out []byte // pending reply bytes queued by Recv, drained by Send
}

func init() {
	Register(Factory{
		Tag: 'y',
		New: func(sock Sock, idx int, below Link) (Link, error) {
			return &telnetFilter{sock: sock, below: below}, nil
		},
	})
}

func (f *telnetFilter) Tag() byte { return 'y' }

func (f *telnetFilter) read(idx int, out []byte) (int, error) {
	if f.below != nil {
		return f.below.Recv(idx, out)
	}
	return f.sock.Read(idx, out)
}

func (f *telnetFilter) write(idx int, buf []byte) (int, error) {
	if f.below != nil {
		return f.below.Send(idx, buf)
	}
	return f.sock.Write(idx, buf)
}

// Recv strips and answers IAC sequences, passing literal data through.
// IAC IAC collapses to one 0xFF byte. WILL/WON'T/DO/DON'T ECHO are
// swallowed silently; any other WILL is answered DON'T, any other DO is
// answered WON'T (spec.md says DON'T for WILL and WON'T for DO — this
// filter replies the mirror image for every unsolicited option except
// ECHO). AYT is answered "Y\r\n".
func (f *telnetFilter) Recv(idx int, out []byte) (int, error) {
	raw := make([]byte, len(out)*2+8)
	n, err := f.read(idx, raw)
	if err != nil {
		return 0, err
	}
	raw = raw[:n]

	w := 0
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		if b != telIAC {
			if w < len(out) {
				out[w] = b
				w++
			}
			continue
		}
		if i+1 >= len(raw) {
			break // incomplete sequence; drop, matches best-effort telnet behavior
		}
		cmd := raw[i+1]
		switch cmd {
		case telIAC:
			if w < len(out) {
				out[w] = telIAC
				w++
			}
			i++
		case telAYT:
			f.out = append(f.out, 'Y', '\r', '\n')
			i++
		case telWILL, telWONT, telDO, telDONT:
			if i+2 >= len(raw) {
				i = len(raw)
				break
			}
			opt := raw[i+2]
			const optECHO = 1
			if opt != optECHO {
				switch cmd {
				case telWILL:
					f.out = append(f.out, telIAC, telDONT, opt)
				case telDO:
					f.out = append(f.out, telIAC, telWONT, opt)
				}
			}
			i += 2
		default:
			i++
		}
	}
	return w, nil
}

// Send doubles any literal 0xFF in user data and flushes queued replies
// ahead of it.
func (f *telnetFilter) Send(idx int, buf []byte) (int, error) {
	payload := make([]byte, 0, len(f.out)+len(buf)*2)
	payload = append(payload, f.out...)
	f.out = nil

	for _, b := range buf {
		payload = append(payload, b)
		if b == telIAC {
			payload = append(payload, telIAC)
		}
	}

	n, err := f.write(idx, payload)
	if err != nil {
		return 0, err
	}
	if n >= len(payload) {
		return len(buf), nil
	}
	return 0, nil
}

func (f *telnetFilter) Close() error { return nil }
