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

import (
	"errors"
	"fmt"
)

// Error is a Code-classified error that can carry a parent (the error it
// wraps) so a chain such as "accept failed" -> "errno ECONNABORTED" survives
// across component boundaries without losing the closed-set Code.
type Error interface {
	error

	// Code returns the classification of this error.
	Code() Code
	// IsCode reports whether this error, or any of its parents, matches c.
	IsCode(c Code) bool
	// Parent returns the wrapped error, or nil at the root of the chain.
	Parent() error
	// Unwrap supports errors.Is / errors.As over the parent chain.
	Unwrap() error
}

type cError struct {
	code Code
	msg  string
	prnt error
}

// New builds an Error from a Code and an optional parent.
func New(code Code, msg string, parent error) Error {
	if msg == "" {
		msg = Describe(code)
	}
	return &cError{code: code, msg: msg, prnt: parent}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, parent error, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...), parent)
}

func (e *cError) Error() string {
	if e.prnt != nil {
		return e.msg + ": " + e.prnt.Error()
	}
	return e.msg
}

func (e *cError) Code() Code {
	return e.code
}

func (e *cError) Parent() error {
	return e.prnt
}

func (e *cError) Unwrap() error {
	return e.prnt
}

func (e *cError) IsCode(c Code) bool {
	if e.code == c {
		return true
	}

	var ce Error
	if errors.As(e.prnt, &ce) {
		return ce.IsCode(c)
	}

	return false
}

// Is lets errors.Is(err, errors.New(code, ...)) compare by Code rather than
// by identity, which is what callers of a closed error taxonomy expect.
func (e *cError) Is(target error) bool {
	var ce Error
	if errors.As(target, &ce) {
		return e.IsCode(ce.Code())
	}
	return false
}

// FromCode is a convenience constructor used at the leaves of socket/
// connchain/dcc code: the Describe() text becomes the message.
func FromCode(c Code) Error {
	return New(c, Describe(c), nil)
}
