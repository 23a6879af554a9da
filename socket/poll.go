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
	"time"
)

// pollSlice bounds how long one probe pass waits for fresh readability
// state before looping back to check for shutdown (spec.md §4.1 "Poll
// loop... polls with no timeout but is woken by a condition variable
// whenever any caller updates requested events"; realized here as a short
// bounded probe since Go has no portable blocking multi-fd poll without
// raw syscalls, per DESIGN.md's Open Question 2 resolution).
const pollSlice = 50 * time.Millisecond

// Run drives the single background poll task until ctx is cancelled: each
// pass copies the requested-events set from every live slot, opportunistically
// probes each descriptor for readability via a short SetReadDeadline, merges
// revents, invokes associated callbacks for newly-readable slots, and
// broadcasts cDone so waiters learn the world has advanced (spec.md §4.1
// "Poll loop").
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(pollSlice)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			m.stopped = true
			m.cDone.Broadcast()
			m.mu.Unlock()
			return
		case <-ticker.C:
			m.pollOnce()
		}
	}
}

// pollOnce is one probe pass over every live slot that wants a read. It is
// unexported and only Run calls it; slot-local callers have no way to run
// a probe of their own.
func (m *Manager) pollOnce() {
	m.mu.Lock()
	type probe struct {
		idx    int
		conn   net.Conn
		reader *bufio.Reader
		cb     EventCallback
		data   interface{}
	}
	var probes []probe
	for i := range m.slots {
		s := &m.slots[i]
		if !s.live() || !s.wantRead || s.conn == nil || s.reader == nil {
			continue
		}
		probes = append(probes, probe{idx: i, conn: s.conn, reader: s.reader, cb: s.cb, data: s.cbData})
	}
	m.mu.Unlock()

	for _, p := range probes {
		_ = p.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		// Peek, not Read: the bufio.Reader buffers bytes pulled from the
		// conn so this probe never discards data Read/Recv would later
		// need (spec.md §4.1 "keeps each slot's revents current" without
		// consuming the stream).
		_, err := p.reader.Peek(1)
		readable := err == nil
		errored := err != nil && !isTimeout(err) && p.reader.Buffered() == 0

		m.mu.Lock()
		s := &m.slots[p.idx]
		if readable {
			s.revRead = true
		}
		if errored {
			s.revErr = true
		}
		s.wantRead = s.wantRead && !readable
		cb, data := s.cb, s.cbData
		m.mu.Unlock()

		if readable && cb != nil {
			cb(p.idx, data)
		}
	}

	m.mu.Lock()
	m.cDone.Broadcast()
	m.mu.Unlock()
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// WaitPoll blocks until the next poll pass completes, for callers that
// need fresh revents without running their own probe.
func (m *Manager) WaitPoll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return
	}
	m.cDone.Wait()
}
