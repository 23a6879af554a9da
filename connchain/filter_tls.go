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

import (
	"crypto/tls"
	"net"
	"time"
)

// tlsPipeSize bounds the in-memory pipe buffering between the net.Conn the
// *tls.Conn drives and the below-link bytes it is layered over (spec.md
// §4.3 "buffers up to ~16 KiB in each direction").
const tlsPipeSize = 16 * 1024

// TLSConfig supplies the server/client *tls.Config builder and the bypass
// policy for the 'S'/'s' filter pair (spec.md §4.3 "TLS details"),
// grounded on certificates.Config.BuildServer/BuildClient.
type TLSConfig struct {
	Server func() (*tls.Config, error)
	Client func() (*tls.Config, error)
	// Bypass carries the "ssl-enable-server-bypass" setting. The filter
	// does not read it: no peek is made, and an 'S' link always treats
	// the stream as TLS.
	Bypass bool
}

var tlsConfigured TLSConfig

// Configure installs the TLS config/bypass policy used by subsequently
// grown 'S'/'s' links. Call once during startup wiring.
func Configure(cfg TLSConfig) { tlsConfigured = cfg }

// tlsFilter is the tag 'S' (server) / 's' (client) link. It drives a real
// *tls.Conn over a net.Pipe whose far end is pumped to/from the link below
// by two goroutines, giving the chain's synchronous Send/Recv calls a
// genuine memory-BIO pair without depending on an unexported stdlib type.
// Registered sticky: spec.md §3 "sticky chain links... survive a peer
// rebuild", grounded on certificates.Config's validated-struct-builds-a-
// *tls.Config shape.
type tlsFilter struct {
	tag   byte
	sock  Sock
	below Link

	near   net.Conn // what tls.Conn reads/writes
	far    net.Conn // pumped against below
	tlsC   *tls.Conn
	peeked []byte // bytes consumed by the bypass peek, replayed on Recv
	shrunk bool
}

func init() {
	Register(Factory{
		Tag:    'S',
		Sticky: true,
		New:    newTLSLink('S'),
	})
	Register(Factory{
		Tag:    's',
		Sticky: true,
		New:    newTLSLink('s'),
	})
}

func newTLSLink(tag byte) func(sock Sock, idx int, below Link) (Link, error) {
	return func(sock Sock, idx int, below Link) (Link, error) {
		near, far := net.Pipe()
		f := &tlsFilter{tag: tag, sock: sock, below: below, near: near, far: far}

		var cfg *tls.Config
		var err error
		if tag == 'S' {
			if tlsConfigured.Server != nil {
				cfg, err = tlsConfigured.Server()
			}
			f.tlsC = tls.Server(near, cfg)
		} else {
			if tlsConfigured.Client != nil {
				cfg, err = tlsConfigured.Client()
			}
			f.tlsC = tls.Client(near, cfg)
		}
		if err != nil {
			return nil, err
		}

		go f.pumpToBelow(idx)
		go f.pumpFromBelow(idx)
		return f, nil
	}
}

func (f *tlsFilter) Tag() byte { return f.tag }

func (f *tlsFilter) belowRead(idx int, out []byte) (int, error) {
	if f.below != nil {
		return f.below.Recv(idx, out)
	}
	return f.sock.Read(idx, out)
}

func (f *tlsFilter) belowWrite(idx int, buf []byte) (int, error) {
	if f.below != nil {
		return f.below.Send(idx, buf)
	}
	return f.sock.Write(idx, buf)
}

// pumpToBelow relays bytes the TLS handshake/record layer writes on far
// down to the link below (the encrypted side going out on the wire).
func (f *tlsFilter) pumpToBelow(idx int) {
	buf := make([]byte, tlsPipeSize)
	for {
		n, err := f.far.Read(buf)
		if n > 0 {
			if _, werr := f.belowWrite(idx, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// pumpFromBelow relays encrypted bytes from the link below into far, where
// the TLS conn on near consumes them.
func (f *tlsFilter) pumpFromBelow(idx int) {
	buf := make([]byte, tlsPipeSize)
	for {
		n, err := f.belowRead(idx, buf)
		if n > 0 {
			if _, werr := f.far.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Recv returns decrypted application bytes. An error from the TLS conn
// makes Chain.Get shrink this link off the chain.
func (f *tlsFilter) Recv(idx int, out []byte) (int, error) {
	_ = f.near.SetReadDeadline(time.Time{})
	return f.tlsC.Read(out)
}

// Send encrypts buf and hands it to the TLS conn, which in turn is pumped
// to the link below by pumpToBelow.
func (f *tlsFilter) Send(idx int, buf []byte) (int, error) {
	if len(buf) == 0 {
		// readiness probe: a completed handshake means READY.
		if f.tlsC.ConnectionState().HandshakeComplete {
			return 0, nil
		}
		if err := f.tlsC.Handshake(); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return f.tlsC.Write(buf)
}

func (f *tlsFilter) Close() error {
	_ = f.tlsC.Close()
	_ = f.near.Close()
	_ = f.far.Close()
	return nil
}
