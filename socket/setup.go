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

package socket

import (
	"bufio"
	"context"
	"net"
	"strconv"

	coreerr "github.com/foxeye-go/corebus/errors"
)

// Setup performs resolution, optional bind, and listen or connect on idx
// (spec.md §4.1 "setup(idx, domain, bind_host, port, cb, cb_data)"). For
// RAW sockets name resolution runs on the calling goroutine, bounded by the
// manager's DNS timeout; the dial itself runs in a new goroutine, and Read
// reports errors.Again until the connect completes.
func (m *Manager) Setup(idx int, domain, bindHost string, port int, cb ListenCallback, ecb EventCallback, cbData interface{}) coreerr.Code {
	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		return ce
	}
	typ := s.typ
	m.mu.Unlock()

	switch typ {
	case LIST, LINP, UNIX:
		return m.setupListen(idx, domain, bindHost, port, cb)
	default:
		return m.setupConnect(idx, domain, port, ecb, cbData)
	}
}

func (m *Manager) setupListen(idx int, domain, bindHost string, port int, cb ListenCallback) coreerr.Code {
	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		return ce
	}
	typ := s.typ
	m.mu.Unlock()

	var network, addr string
	switch typ {
	case UNIX:
		network = "unix"
		addr = bindHost
	default:
		network = "tcp"
		host := bindHost
		addr = net.JoinHostPort(host, strconv.Itoa(port))
	}

	ln, err := net.Listen(network, addr)
	if err != nil {
		return errnoOf(err)
	}

	m.mu.Lock()
	s, ce = m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		_ = ln.Close()
		return ce
	}
	s.listener = ln
	s.state = stateLive
	s.ready = true
	if typ == UNIX {
		s.unixPath = addr
	} else if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
		s.myIP = tcpAddr.IP.String()
	}
	local := ln.Addr().String()
	m.mu.Unlock()

	go m.acceptLoop(idx, ln)

	if cb != nil {
		return cb(idx, local)
	}
	return coreerr.OK
}

// acceptLoop is the one background goroutine per listener spec.md §4.4
// describes for listeners, queuing accepted conns for Answer to drain.
func (m *Manager) acceptLoop(idx int, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		m.mu.Lock()
		if s, ce := m.slotAt(idx); ce != coreerr.OK || s.listener != ln {
			m.mu.Unlock()
			_ = conn.Close()
			return
		}
		m.pending[idx] = append(m.pending[idx], conn)
		cb, data := m.slots[idx].cb, m.slots[idx].cbData
		m.mu.Unlock()
		if cb != nil {
			cb(idx, data)
		}
	}
}

func (m *Manager) setupConnect(idx int, domain string, port int, ecb EventCallback, cbData interface{}) coreerr.Code {
	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		return ce
	}
	s.cb = ecb
	s.cbData = cbData
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.dnsTimeout)
	defer cancel()

	ip, resolveErr := m.resolve(ctx, domain)
	if resolveErr != coreerr.OK {
		return resolveErr
	}

	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	go m.dial(idx, addr, domain)
	return coreerr.OK
}

// dial negotiates the outbound connect off the main thread (spec.md §4.1
// "negotiate outgoing connects off the main thread").
func (m *Manager) dial(idx int, addr, domain string) {
	conn, err := net.DialTimeout("tcp", addr, m.dnsTimeout)

	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		s.state = stateShuttingDown
		cb, data := s.cb, s.cbData
		m.mu.Unlock()
		if cb != nil {
			cb(idx, data)
		}
		return
	}

	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.state = stateLive
	s.ready = true
	s.domain = domain
	if ta, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		s.ip = ta.IP.String()
		s.port = ta.Port
	}
	if la, ok := conn.LocalAddr().(*net.TCPAddr); ok {
		s.myIP = la.IP.String()
	}
	cb, data := s.cb, s.cbData
	m.cPoll.Broadcast()
	m.mu.Unlock()

	if cb != nil {
		cb(idx, data)
	}
}

// Answer returns a new socket index for a pending accept, errors.Again if
// none is queued yet (spec.md §4.1 "answer(listen_idx)").
func (m *Manager) Answer(listenIdx int) (int, coreerr.Code) {
	m.mu.Lock()
	if _, ce := m.slotAt(listenIdx); ce != coreerr.OK {
		m.mu.Unlock()
		return -1, ce
	}
	q := m.pending[listenIdx]
	if len(q) == 0 {
		m.mu.Unlock()
		return -1, coreerr.Again
	}
	conn := q[0]
	m.pending[listenIdx] = q[1:]
	m.mu.Unlock()

	newIdx := m.Get(RAW)
	m.mu.Lock()
	s := &m.slots[newIdx]
	s.conn = conn
	s.reader = bufio.NewReader(conn)
	s.state = stateLive
	s.ready = true
	if ta, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		s.ip = ta.IP.String()
		s.port = ta.Port
	}
	if la, ok := conn.LocalAddr().(*net.TCPAddr); ok {
		s.myIP = la.IP.String()
	}
	m.mu.Unlock()

	return newIdx, coreerr.OK
}
