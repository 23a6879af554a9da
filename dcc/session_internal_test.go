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
	"testing"

	"github.com/foxeye-go/corebus/dispatcher"
	"github.com/foxeye-go/corebus/socket"
)

func TestSessionTransitions(t *testing.T) {
	core := dispatcher.New()
	mgr := socket.NewManager()
	idx := mgr.Get(socket.RAW)

	s := NewSession(core, mgr, "test-peer", KindChat, idx)
	if s.State() != Disconnected {
		t.Fatalf("initial state = %s", s.State())
	}

	if err := s.transition(Initial); err != nil {
		t.Fatalf("Disconnected -> Initial: %v", err)
	}
	if err := s.transition(Talk); err != nil {
		t.Fatalf("Initial -> Talk: %v", err)
	}
	if err := s.transition(Idle); err == nil {
		t.Fatal("Talk -> Idle should be illegal")
	}
	if err := s.transition(Lastwait); err != nil {
		t.Fatalf("Talk -> Lastwait: %v", err)
	}
}

func TestResumeTimeoutArmDisarm(t *testing.T) {
	core := dispatcher.New()
	mgr := socket.NewManager()
	idx := mgr.Get(socket.RAW)
	s := NewSession(core, mgr, "test-peer-2", KindGet, idx)

	fired := false
	s.ArmResumeTimeout(0, func(*Session) { fired = true })
	s.onSignal(s.Iface, dispatcher.TIMEOUT)
	if !fired {
		t.Fatal("expected resume timeout callback to fire")
	}

	fired = false
	s.ArmResumeTimeout(1_000_000_000, func(*Session) { fired = true })
	s.DisarmResumeTimeout()
	s.onSignal(s.Iface, dispatcher.TIMEOUT)
	if fired {
		t.Fatal("disarmed timeout must not fire")
	}
}
