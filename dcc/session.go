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

package dcc

import (
	"fmt"
	"sync"
	"time"

	"github.com/foxeye-go/corebus/connchain"
	"github.com/foxeye-go/corebus/dispatcher"
	"github.com/foxeye-go/corebus/socket"
)

// Peer is a concrete DCC endpoint: a socket, a chain, a state, and protocol
// data (spec.md §9 GLOSSARY "Peer"). Session wraps it with the dispatcher
// interface that lets other components talk to it through the bus.
type Peer struct {
	Lname string // listfile identity this session is bound to, if any
	Host  string
	Ident string

	SockIdx int
	Chain   *connchain.Chain
}

// Session is one DCC interface registered with the dispatcher: its request
// handler relays bus traffic onto the chain, and its signal handler reacts
// to TIMEOUT (resume deadline) and REPORT (rate sampling); the transfer
// worker itself runs as a detached goroutine that only ever talks back to
// the dispatcher through SendSignal, per spec.md §5 "Workers communicate
// back to the dispatcher only by setting interface flag bits... or posting
// requests/signals".
type Session struct {
	mu sync.Mutex

	Core  *dispatcher.Core
	Mgr   *socket.Manager
	Iface *dispatcher.Interface

	Peer Peer
	Kind Kind
	St   State

	// Transfer metadata (spec.md §4.4 wire protocol fields).
	Name      string
	Size      int64
	Offset    int64 // resume start offset, 0 for a fresh transfer
	BlockSize int
	Ahead     int
	Token     string

	Rate *RateRing

	resumeArmed    bool
	resumeDeadline time.Time

	onResumeTimeout func(*Session)
}

// NewSession allocates a dispatcher interface of type DCCALIAS for a fresh
// DCC peer and wires its signal handler (spec.md §4.4 "Peers... are
// interfaces whose request handler uses a connection chain").
func NewSession(core *dispatcher.Core, mgr *socket.Manager, name string, kind Kind, sockIdx int) *Session {
	s := &Session{
		Core: core,
		Mgr:  mgr,
		Kind: kind,
		St:   Disconnected,
		Rate: NewRateRing(),
		Peer: Peer{
			SockIdx: sockIdx,
			Chain:   connchain.New(name, sockAdapter{mgr: mgr}, sockIdx),
		},
	}
	s.Iface = core.Add(dispatcher.DCCALIAS, name, s.onSignal, s.onRequest, s)
	return s
}

// transition moves the session to `to`, rejecting an edge the state
// machine does not allow (spec.md §4.4 diagram).
func (s *Session) transition(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !legal(s.St, to) {
		return fmt.Errorf("dcc: illegal transition %s -> %s", s.St, to)
	}
	s.St = to
	return nil
}

// State returns the session's current state under lock.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.St
}

// onRequest is the Session's RequestFunc: a bus message addressed to this
// peer is written out through its chain (CHAT text, or a control line for
// a transfer session); spec.md §4.4 treats this as the peer's only inbound
// path from the rest of the bot.
func (s *Session) onRequest(i *dispatcher.Interface, r *dispatcher.Request) dispatcher.HandlerResult {
	if s.State() == Lastwait {
		return dispatcher.OK
	}
	if _, err := s.Peer.Chain.Put([]byte(r.Text)); err != nil {
		return dispatcher.REJECTED
	}
	return dispatcher.OK
}

// onSignal is the Session's SignalFunc (spec.md §4.4 "Failure semantics",
// "Rate reporting", "resume-timeout timer").
func (s *Session) onSignal(i *dispatcher.Interface, sig dispatcher.Signal) dispatcher.Type {
	switch sig {
	case dispatcher.TIMEOUT:
		s.mu.Lock()
		armed, deadline := s.resumeArmed, s.resumeDeadline
		s.mu.Unlock()
		if armed && !time.Now().Before(deadline) {
			s.mu.Lock()
			s.resumeArmed = false
			cb := s.onResumeTimeout
			s.mu.Unlock()
			if cb != nil {
				cb(s)
			}
		}
	case dispatcher.TERMINATE, dispatcher.SHUTDOWN:
		_ = s.Close()
		return dispatcher.DIED
	case dispatcher.REPORT:
		// Rate ring is sampled by the caller through Rate.Average(); nothing
		// to do here beyond keeping the interface alive for the report pass.
	}
	return 0
}

// ArmResumeTimeout schedules the receiver's bounded wait for a matching
// DCC ACCEPT (spec.md §4.4 "enters IDLE, arming a resume-timeout timer").
// The actual wakeup is expected to be driven by a timers.Wheel posting a
// TIMEOUT signal to this interface's name once the deadline passes.
func (s *Session) ArmResumeTimeout(d time.Duration, onTimeout func(*Session)) {
	s.mu.Lock()
	s.resumeArmed = true
	s.resumeDeadline = time.Now().Add(d)
	s.onResumeTimeout = onTimeout
	s.mu.Unlock()
}

// DisarmResumeTimeout cancels a pending resume wait, e.g. on a matching
// DCC ACCEPT arriving before the deadline.
func (s *Session) DisarmResumeTimeout() {
	s.mu.Lock()
	s.resumeArmed = false
	s.mu.Unlock()
}

// Close tears down the session's socket (spec.md §4.4 "QUIT... interface
// is being torn down"); the connection chain's links are not closed here.
func (s *Session) Close() error {
	_ = s.Mgr.Kill(s.Peer.SockIdx)
	return nil
}

// ReportLine formats the current rate average the way a REPORT signal
// handler surfaces it upstream (spec.md §4.4 "averaged for the REPORT
// signal").
func (s *Session) ReportLine() string {
	return fmt.Sprintf("%s: state=%s rate=%.1fB/s", s.Iface.Name, s.State(), s.Rate.Average())
}
