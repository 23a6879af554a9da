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
	"math/rand"
	"sync"
	"time"

	coreerr "github.com/foxeye-go/corebus/errors"
	"github.com/foxeye-go/corebus/socket"
)

// PortRange is the configured window a passive DCC listener picks its
// ephemeral port from (spec.md §4.4 "A random port is picked inside the
// configured range; collisions retry up to the range size").
type PortRange struct {
	Low, High int
}

func (r PortRange) size() int {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

// AcceptHandler is invoked once per accepted child connection, with the
// new socket's index and the ident lookup's best-effort result (spec.md
// §4.4 "a child record is built... and a pre-handler callback is invoked
// with the child socket").
type AcceptHandler func(childIdx int, ident string, identOK bool)

// Listener drives one DCC listener interface: spec.md §4.4 "Listener
// control". It owns exactly one background accept-loop goroutine.
type Listener struct {
	mu sync.Mutex

	mgr   *socket.Manager
	idx   int
	port  int
	done  bool
	count int
}

// OpenListener binds a listening socket inside rng (or exactly at
// rng.Low==rng.High for a user-assigned port), retrying on collision up to
// rng's width, then invokes onBound once with the chosen address and spawns
// the accept loop (spec.md §4.4 "opens a socket on a chosen ephemeral port
// ... calls the user's pre-open callback with the bound address").
func OpenListener(mgr *socket.Manager, bindHost string, rng PortRange, onBound func(port int), onAccept AcceptHandler) (*Listener, error) {
	width := rng.size()
	if width <= 0 {
		return nil, fmt.Errorf("dcc: empty port range %d-%d", rng.Low, rng.High)
	}

	l := &Listener{mgr: mgr}
	order := rand.Perm(width)

	for _, off := range order {
		port := rng.Low + off
		idx := mgr.Get(socket.LIST)
		ce := mgr.Setup(idx, "", bindHost, port, func(_ int, addr string) coreerr.Code {
			return coreerr.OK
		}, nil, nil)
		if ce == coreerr.OK {
			l.idx = idx
			l.port = port
			if onBound != nil {
				onBound(port)
			}
			go l.acceptLoop(onAccept)
			return l, nil
		}
		_ = mgr.Kill(idx)
	}
	return nil, fmt.Errorf("dcc: no free port in range %d-%d", rng.Low, rng.High)
}

// acceptLoop is the listener's one background task (spec.md §4.4 "A
// listener interface spawns one background task per port... then loops on
// answer").
func (l *Listener) acceptLoop(onAccept AcceptHandler) {
	for {
		l.mu.Lock()
		done := l.done
		l.mu.Unlock()
		if done {
			return
		}

		childIdx, ce := l.mgr.Answer(l.idx)
		if ce != coreerr.OK {
			time.Sleep(20 * time.Millisecond)
			continue
		}

		l.mu.Lock()
		l.count++
		l.mu.Unlock()

		peerIP := l.mgr.IP(childIdx)
		go func() {
			ident, ok := l.mgr.Ident(peerIP, l.port, 0)
			if onAccept != nil {
				onAccept(childIdx, ident, ok)
			}
		}()
	}
}

// Report renders the listener's exported state: bound port,
// active-or-finishing, and children, the number of connections accepted
// since the listener opened (it is not decremented when a child closes).
func (l *Listener) Report() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	status := "active"
	if l.done {
		status = "finishing"
	}
	return fmt.Sprintf("port=%d status=%s children=%d", l.port, status, l.count)
}

// Close stops the accept loop and releases the listening socket.
func (l *Listener) Close() error {
	l.mu.Lock()
	l.done = true
	l.mu.Unlock()
	return l.mgr.Kill(l.idx)
}
