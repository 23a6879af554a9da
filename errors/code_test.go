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

package errors_test

import (
	"testing"

	liberr "github.com/foxeye-go/corebus/errors"
)

func TestErrno_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 9, 11, 104} {
		c := liberr.Errno(n)
		got, ok := c.IsErrno()
		if !ok {
			t.Fatalf("Errno(%d).IsErrno() ok=false", n)
		}
		if got != n {
			t.Fatalf("Errno(%d).IsErrno() = %d, want %d", n, got, n)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		code liberr.Code
		want string
	}{
		{liberr.Again, "operation would block"},
		{liberr.EOF, "remote end closed connection"},
		{liberr.NoSuchDomain, "no such domain"},
	}

	for _, tc := range tests {
		if got := liberr.Describe(tc.code); got != tc.want {
			t.Errorf("Describe(%v) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestError_IsCode(t *testing.T) {
	parent := liberr.FromCode(liberr.Errno(104))
	wrapped := liberr.New(liberr.EOF, "", parent)

	if !wrapped.IsCode(liberr.EOF) {
		t.Fatalf("expected wrapped error to match its own code")
	}
	if !wrapped.IsCode(liberr.Errno(104)) {
		t.Fatalf("expected wrapped error to match its parent's code")
	}
	if wrapped.IsCode(liberr.Again) {
		t.Fatalf("did not expect wrapped error to match an unrelated code")
	}
}

func TestCode_Transient(t *testing.T) {
	if !liberr.Again.Transient() {
		t.Errorf("Again should be transient")
	}
	if liberr.EOF.Transient() {
		t.Errorf("EOF should not be transient")
	}
}
