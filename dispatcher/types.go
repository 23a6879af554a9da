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

// Package dispatcher implements the event-dispatched interface/request bus:
// a single-threaded scheduler over a registry of named, typed interfaces,
// a reference-counted request pool, and synchronous signal delivery.
package dispatcher

import "github.com/foxeye-go/corebus/atomic"

// Type is a bitset over the closed interface-type vocabulary.
type Type uint32

const (
	CONSOLE Type = 1 << iota
	LOG
	LISTEN
	CONNECT
	CLIENT
	SERVICE
	MODULE
	DIRECT
	DCCALIAS
	TEMP
	INIT
	LOCKED
	DIED
	FINWAIT
	PENDING
)

// Has reports whether every bit in mask is set in t.
func (t Type) Has(mask Type) bool { return t&mask == mask }

// HasAny reports whether any bit in mask is set in t.
func (t Type) HasAny(mask Type) bool { return t&mask != 0 }

// bits wraps atomic.Bits so interface.go can OR in FINWAIT/DIED from worker
// goroutines without touching the dispatcher's own locks (spec.md §5 "Cross-
// thread interface dying communication").
type bits = atomic.Bits

// HandlerResult is the return value of a request handler.
type HandlerResult int

const (
	// OK — the request was consumed; pop and free it.
	OK HandlerResult = iota
	// REJECTED — keep the request, stop serving this interface until next tick.
	REJECTED
	// RELAYED — the dispatcher re-posts the request elsewhere, then pops it.
	RELAYED
)

// Priority selects where a posted request lands in an interface's queue.
type Priority int

const (
	Normal Priority = iota // tail
	Ahead                  // just before tail
	Quick                  // head
)

// SignalFunc is an interface's signal handler. It may OR additional type
// bits back into the interface (spec.md §9 "Signal handlers returning OR'd
// type bits"), e.g. FINWAIT to ask for one more pass before DIED.
type SignalFunc func(i *Interface, sig Signal) Type

// RequestFunc is an interface's request handler.
type RequestFunc func(i *Interface, r *Request) HandlerResult
