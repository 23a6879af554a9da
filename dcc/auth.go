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

import "github.com/foxeye-go/corebus/bindtable"

// ListfileLookup resolves host/ident to a listfile Lname. The listfile
// itself is an external collaborator (spec.md OVERVIEW); dcc only needs
// this one query shape to decide whether to accept a connection.
type ListfileLookup func(host, ident string) (lname string, ok bool)

// Authorizer drives spec.md §4.4 "Authorization": a listfile lookup gate,
// plus the telnet-form greeting/password login routed through a bindtable
// so a protocol module can supply the actual prompt and password check.
type Authorizer struct {
	Lookup      ListfileLookup
	DropUnknown bool
	Registry    *bindtable.Registry
}

// Authorize resolves host/ident against the listfile. It reports the
// matched Lname and whether the connection may proceed (spec.md §4.4
// "unknown clients may be dropped by configuration").
func (a *Authorizer) Authorize(host, ident string) (lname string, allow bool) {
	if a.Lookup == nil {
		return "", !a.DropUnknown
	}
	lname, ok := a.Lookup(host, ident)
	if !ok {
		return "", !a.DropUnknown
	}
	return lname, true
}

// Greeting renders the stock login prompt a telnet-form DCC chat session
// shows before password verification (spec.md §4.4 "a stock prompt").
const Greeting = "\r\nFoxEye DCC chat - login: "

// VerifyPassword delegates to the "passwd" bindtable, the same bindable-
// handler indirection spec.md names for "password verification is
// delegated to a passwd bindtable". lname and attempt are joined with a
// NUL so a single bound callback can split and check both.
func (a *Authorizer) VerifyPassword(lname, attempt string) bool {
	if a.Registry == nil {
		return false
	}
	_, ok := a.Registry.Run("passwd", 0, lname+"\x00"+attempt)
	return ok
}
