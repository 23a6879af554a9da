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

// Package socket implements the non-blocking socket manager of spec.md
// §4.1: a fixed-size slot table indexed by small integer "socket index",
// a single poll loop that keeps each slot's observed readiness current,
// and a resolver/ident helper used by inbound connection setup.
//
// Grounded on the teacher's socket, socket/config, socket/client/tcp and
// socket/server/tcp packages, whose test files (socket/socket_test.go,
// socket/server/tcp/*, socket/config/*) are the only surviving artifacts
// of those packages in the retrieval pack and this module's contract for
// ConnState, ErrorFilter and DefaultBufferSize. The slot-indexed
// allocate/setup/answer/read/write contract itself is new code grounded
// directly on spec.md §4.1, since the teacher's surviving tests describe a
// generic net.Conn-wrapping client/server library, not this index-based
// shape.
package socket

import "strings"

// DefaultBufferSize is the default per-read buffer size, matching the
// teacher's socket package constant.
const DefaultBufferSize = 32 * 1024

// EOL is the line terminator the socket layer's callers frame on.
const EOL = '\n'

// Type selects the socket family/role requested from Get (spec.md §4.1
// "get(type) → socket index. type ∈ {RAW, LIST, LINP, UNIX}").
type Type int

const (
	// RAW is a plain outbound/inbound TCP stream socket.
	RAW Type = iota
	// LIST is a TCP listener.
	LIST
	// LINP is a loopback-only listener (internal peer-to-peer).
	LINP
	// UNIX is a UNIX-domain stream socket (listener or connection).
	UNIX
)

// ConnState enumerates a connection's lifecycle stage, mainly for logging
// and metrics (grounded on the teacher's socket.ConnState).
type ConnState int

const (
	ConnectionDial ConnState = iota
	ConnectionNew
	ConnectionRead
	ConnectionCloseRead
	ConnectionHandler
	ConnectionWrite
	ConnectionCloseWrite
	ConnectionClose
)

func (s ConnState) String() string {
	switch s {
	case ConnectionDial:
		return "Dial Connection"
	case ConnectionNew:
		return "New Connection"
	case ConnectionRead:
		return "Read Incoming Stream"
	case ConnectionCloseRead:
		return "Close Incoming Stream"
	case ConnectionHandler:
		return "Run HandlerFunc"
	case ConnectionWrite:
		return "Write Outgoing Steam"
	case ConnectionCloseWrite:
		return "Close Outgoing Stream"
	case ConnectionClose:
		return "Close Connection"
	default:
		return "unknown connection state"
	}
}

// ErrorFilter drops the one error net.Conn callers are expected to see
// routinely during shutdown — "use of closed network connection" — so
// cleanup paths don't log it as a real failure (grounded on the teacher's
// socket.ErrorFilter).
func ErrorFilter(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "use of closed network connection") {
		return nil
	}
	return err
}
