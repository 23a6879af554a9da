/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors is the closed error taxonomy shared by the socket manager,
// the connection chain and the dispatcher (see spec.md §4.5 / §7).
//
// A Code is a small numeric classification, never a free-form string: every
// component that returns an error returns one of these codes (possibly
// wrapping an OS errno for the Errno family) so that callers can switch on
// it instead of parsing text.
package errors

import (
	"strconv"
)

// Code is a closed-set error classification. Negative ranges mirror the
// historical "errno-like" convention of the socket layer: a small set of
// named sentinels plus an open-ended Errno(n) family.
type Code int32

const (
	// OK means no error.
	OK Code = 0

	// Again means the operation would block: retry later.
	Again Code = -1
	// NoSocket means the socket index is not allocated.
	NoSocket Code = -2
	// ResolveTimeout means DNS resolution did not complete in time.
	ResolveTimeout Code = -3
	// EOF means the peer closed its end of the connection.
	EOF Code = -6
	// UndefDomain means no domain/bind host was given where one is required.
	UndefDomain Code = -7
	// NoSuchDomain means resolution completed but returned no usable address.
	NoSuchDomain Code = -8
	// NoThread means a background worker could not be started.
	NoThread Code = -9
	// errnoBase is the start of the Errno(n) range: Errno(n) == errnoBase - n.
	errnoBase Code = -10

	// Protocol-level and resource-level codes used outside the raw socket
	// layer (spec.md §7 "Protocol"/"Resource"/"Assertion" kinds).
	Protocol Code = -100
	Resource Code = -101
	Assert   Code = -102
)

// Errno wraps a positive OS errno value into the closed Code space.
func Errno(errno int) Code {
	if errno <= 0 {
		return OK
	}
	return errnoBase - Code(errno)
}

// IsErrno reports whether c was produced by Errno, and returns the wrapped
// value.
func (c Code) IsErrno() (errno int, ok bool) {
	if c > errnoBase || c == Protocol || c == Resource || c == Assert {
		return 0, false
	}
	return int(errnoBase - c), true
}

// String renders the numeric code, mainly for %v / log fields.
func (c Code) String() string {
	return strconv.Itoa(int(c))
}

// Describe is the canonical human-readable formatter named by spec.md §4.5.
func Describe(c Code) string {
	if errno, ok := c.IsErrno(); ok {
		return "errno " + strconv.Itoa(errno)
	}

	switch c {
	case OK:
		return "no error"
	case Again:
		return "operation would block"
	case NoSocket:
		return "no such socket"
	case ResolveTimeout:
		return "resolve timeout"
	case EOF:
		return "remote end closed connection"
	case UndefDomain:
		return "domain not defined"
	case NoSuchDomain:
		return "no such domain"
	case NoThread:
		return "cannot start worker thread"
	case Protocol:
		return "protocol error"
	case Resource:
		return "resource exhausted"
	case Assert:
		return "internal assertion failed"
	default:
		return "unknown error (" + c.String() + ")"
	}
}
