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
	"errors"

	"github.com/foxeye-go/corebus/connchain"
	coreerr "github.com/foxeye-go/corebus/errors"
	"github.com/foxeye-go/corebus/socket"
)

// sockAdapter satisfies connchain.Sock over a *socket.Manager, translating
// the manager's coreerr.Code returns into plain errors the chain contract
// expects. coreerr.Again becomes connchain.ErrAgain so Chain.Get can tell a
// would-block apart from a connection-fatal error (spec.md §7).
type sockAdapter struct {
	mgr *socket.Manager
}

func (a sockAdapter) Read(idx int, out []byte) (int, error) {
	n, ce := a.mgr.Read(idx, out)
	return n, codeToErr(ce)
}

func (a sockAdapter) Write(idx int, buf []byte) (int, error) {
	n, ce := a.mgr.Write(idx, buf)
	return n, codeToErr(ce)
}

func codeToErr(ce coreerr.Code) error {
	switch ce {
	case coreerr.OK:
		return nil
	case coreerr.Again:
		return connchain.ErrAgain
	default:
		return errors.New(coreerr.Describe(ce))
	}
}
