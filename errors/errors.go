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

package errors

// Transient reports whether an error of this Code should simply be retried
// by the caller (spec.md §7 "Transient").
func (c Code) Transient() bool {
	switch c {
	case Again, ResolveTimeout:
		return true
	default:
		_, isErrno := c.IsErrno()
		return isErrno && c == Errno(11) // EAGAIN on most platforms
	}
}

// ConnectionFatal reports whether an error of this Code means the caller
// must tear down the associated peer/interface (spec.md §7 "Connection-fatal").
func (c Code) ConnectionFatal() bool {
	if c == EOF {
		return true
	}
	_, isErrno := c.IsErrno()
	return isErrno
}
