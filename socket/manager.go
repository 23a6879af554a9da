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
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	coreerr "github.com/foxeye-go/corebus/errors"
)

// slotState tracks a slot's one-way lifecycle (spec.md §3 "Socket slot...
// is either unallocated, allocated-pending-setup, live, or shutting-down").
type slotState int

const (
	stateUnallocated slotState = iota
	statePending
	stateLive
	stateShuttingDown
)

// EventCallback is invoked once a slot becomes readable/ready, associating
// it with the event core that wakes the owning interface (spec.md §4.1
// "associate(idx, cb, data)").
type EventCallback func(idx int, data interface{})

// ListenCallback is invoked once after a listen setup completes, reporting
// the bound local address; returning errors.Again asks the caller to retry
// on a new (ephemeral) port (spec.md §4.1 "setup... On listen, cb is
// invoked once with the chosen local address").
type ListenCallback func(idx int, localAddr string) coreerr.Code

type slot struct {
	typ   Type
	state slotState

	conn     net.Conn
	reader   *bufio.Reader // buffers conn so the poll loop can Peek without consuming
	listener net.Listener
	unixPath string

	domain string
	ip     string
	myIP   string
	port   int

	ready bool // connect completed

	cb     EventCallback
	cbData interface{}

	wantRead bool
	revRead  bool
	revErr   bool
}

func (s *slot) live() bool {
	return s.conn != nil || s.listener != nil
}

// Manager owns every OS-descriptor-equivalent (net.Conn/net.Listener) the
// bot holds, behind the slot-indexed contract of spec.md §4.1. The poll
// loop is realized portably (spec.md §9 Open Question 2, resolved in
// DESIGN.md): one goroutine owns cPoll/cDone exactly as spec.md §4.1
// describes, driven by a ticker-scheduled non-blocking readability probe
// via SetReadDeadline rather than a raw poll(2)/epoll syscall — the same
// "ask the OS for fresh state without blocking" idiom the teacher's
// socket/server/tcp uses by running net.Listener.Accept in its own
// goroutine, never on the shared loop.
type Manager struct {
	mu    sync.Mutex
	slots []slot
	free  []int

	cPoll *sync.Cond // broadcast when requested-events change
	cDone *sync.Cond // broadcast when a poll pass completes

	stopped bool

	pending map[int][]net.Conn // listener idx -> queued accepted conns

	identTimeout time.Duration
	dnsTimeout   time.Duration
	strictBack   bool
}

// NewManager builds an idle Manager. Run must be started to drive the poll
// loop.
func NewManager() *Manager {
	m := &Manager{
		pending:      make(map[int][]net.Conn),
		identTimeout: 5 * time.Second,
		dnsTimeout:   10 * time.Second,
	}
	m.cPoll = sync.NewCond(&m.mu)
	m.cDone = sync.NewCond(&m.mu)
	return m
}

// SetStrictBackresolve toggles spec.md §4.1's "the canonical reverse-DNS
// name is stored only if it forward-resolves back to the same address".
func (m *Manager) SetStrictBackresolve(v bool) { m.strictBack = v }

// Get allocates a slot of the given type and returns its index (spec.md
// §4.1 "get(type) → socket index").
func (m *Manager) Get(typ Type) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var idx int
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = len(m.slots)
		m.slots = append(m.slots, slot{})
	}
	m.slots[idx] = slot{typ: typ, state: statePending}
	return idx
}

func (m *Manager) slotAt(idx int) (*slot, coreerr.Code) {
	if idx < 0 || idx >= len(m.slots) {
		return nil, coreerr.NoSocket
	}
	s := &m.slots[idx]
	if s.state == stateUnallocated {
		return nil, coreerr.NoSocket
	}
	return s, coreerr.OK
}

// Kill shuts down and releases a slot. For UNIX-domain listeners the path
// is unlinked (spec.md §4.1 "kill(idx)").
func (m *Manager) Kill(idx int) coreerr.Code {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		return ce
	}
	s.state = stateShuttingDown
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
		if s.typ == UNIX && s.unixPath != "" {
			_ = os.Remove(s.unixPath)
		}
	}
	delete(m.pending, idx)
	m.slots[idx] = slot{}
	m.free = append(m.free, idx)
	return coreerr.OK
}

// Reset replaces a slot's descriptor without releasing the slot index,
// recovering from a failed Setup (spec.md §4.1 "reset(idx, type)").
func (m *Manager) Reset(idx int, typ Type) coreerr.Code {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		return ce
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	m.slots[idx] = slot{typ: typ, state: statePending}
	return coreerr.OK
}

// Associate registers idx's readable-event callback (spec.md §4.1
// "associate(idx, cb, data)").
func (m *Manager) Associate(idx int, cb EventCallback, data interface{}) coreerr.Code {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		return ce
	}
	s.cb = cb
	s.cbData = data
	s.wantRead = true
	m.cPoll.Broadcast()
	return coreerr.OK
}

// Domain returns the slot's resolved peer domain name.
func (m *Manager) Domain(idx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ce := m.slotAt(idx); ce == coreerr.OK {
		return s.domain
	}
	return ""
}

// Revents reports the last poll pass's observed readiness for idx: ready
// means a byte is buffered to read, errored means the descriptor faulted
// (spec.md §3 "last observed poll revents"). Both are cleared by this call.
func (m *Manager) Revents(idx int) (ready bool, errored bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		return false, false
	}
	ready, errored = s.revRead, s.revErr
	s.revRead, s.revErr = false, false
	return
}

// IP returns the slot's resolved peer textual IP.
func (m *Manager) IP(idx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ce := m.slotAt(idx); ce == coreerr.OK {
		return s.ip
	}
	return ""
}

// MyIP returns the local side's textual IP for idx.
func (m *Manager) MyIP(idx int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ce := m.slotAt(idx); ce == coreerr.OK {
		return s.myIP
	}
	return ""
}

// Read copies up to len(out) bytes from idx (spec.md §4.1 "read(idx, out,
// cap)"). A full buffer re-arms the read bit to force a re-check next poll
// pass, exactly as spec.md describes.
func (m *Manager) Read(idx int, out []byte) (int, coreerr.Code) {
	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		return 0, ce
	}
	conn := s.conn
	reader := s.reader
	ready := s.ready
	m.mu.Unlock()

	if conn == nil {
		return 0, coreerr.NoSocket
	}
	if !ready {
		return 0, coreerr.Again
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Millisecond))
	n, err := reader.Read(out)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, coreerr.Again
		}
		if isEOF(err) {
			return 0, coreerr.EOF
		}
		return 0, errnoOf(err)
	}
	if n == len(out) {
		m.mu.Lock()
		s.wantRead = true
		m.mu.Unlock()
	}
	return n, coreerr.OK
}

// Write sends buf over idx (spec.md §4.1 "write(idx, buf, &ptr, &len)").
// The slot is marked ready as soon as any bytes leave.
func (m *Manager) Write(idx int, buf []byte) (int, coreerr.Code) {
	m.mu.Lock()
	s, ce := m.slotAt(idx)
	if ce != coreerr.OK {
		m.mu.Unlock()
		return 0, ce
	}
	conn := s.conn
	m.mu.Unlock()

	if conn == nil {
		return 0, coreerr.NoSocket
	}

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Millisecond))
	n, err := conn.Write(buf)
	if n > 0 {
		m.mu.Lock()
		s.ready = true
		m.mu.Unlock()
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			if n == 0 {
				return 0, coreerr.Again
			}
			return n, coreerr.OK
		}
		if isEOF(err) {
			return n, coreerr.EOF
		}
		return n, errnoOf(err)
	}
	return n, coreerr.OK
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// errnoOf best-effort maps a net error's underlying syscall.Errno into the
// Errno(n) range; otherwise it returns a generic errno 1 ("unspecified OS
// error") so callers still see a connection-fatal code.
func errnoOf(err error) coreerr.Code {
	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		return coreerr.Errno(int(sysErr))
	}
	return coreerr.Errno(1)
}
