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

package dispatcher

import (
	"fmt"
	"sync"
)

// Request flag bits (spec.md §3 "Reserved flag SIGNAL/DEBUG/REPORT/CONN").
type Flag int

const (
	FlagNone   Flag = 0
	FlagSignal Flag = 1 << iota
	FlagDebug
	FlagReport
	FlagConn
)

// Request is a reference-counted, addressed message. One Request may be
// queued on many interfaces at once; refcount tracks how many queue entries
// still point at it.
type Request struct {
	Source *Interface
	Target string
	Mask   Type
	Flags  Flag
	Text   string

	mu   sync.Mutex
	refc int
	pool *pool
}

func (r *Request) retain() {
	r.mu.Lock()
	r.refc++
	r.mu.Unlock()
}

// Release drops one reference; when the count reaches zero the record
// returns to its free pool (spec.md §3 "reaching zero returns the record to
// the free pool").
func (r *Request) Release() {
	r.mu.Lock()
	r.refc--
	n := r.refc
	r.mu.Unlock()
	if n == 0 && r.pool != nil {
		r.pool.put(r)
	}
}

// RefCount returns the current live reference count (used by tests to
// assert spec.md §8 invariant 2).
func (r *Request) RefCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refc
}

// blockSize is the number of records per pool block (spec.md §4.2 "Request
// pool... block allocator of fixed-size blocks of N records").
const blockSize = 64

// pool is a block allocator with a free list, grounded on the teacher's
// fixed-capacity slice-backed pool idiom: grow by whole blocks, never
// individually, and keep freed records on a slice of pointers that alloc
// pops from the end.
type pool struct {
	mu   sync.Mutex
	free []*Request
}

func newPool() *pool {
	return &pool{}
}

func (p *pool) alloc() *Request {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		p.grow()
		p.mu.Lock()
	}
	n := len(p.free) - 1
	r := p.free[n]
	p.free = p.free[:n]
	p.mu.Unlock()
	return r
}

func (p *pool) grow() {
	block := make([]Request, blockSize)
	p.mu.Lock()
	for i := range block {
		block[i].pool = p
		p.free = append(p.free, &block[i])
	}
	p.mu.Unlock()
}

func (p *pool) put(r *Request) {
	*r = Request{pool: p}
	p.mu.Lock()
	p.free = append(p.free, r)
	p.mu.Unlock()
}

// newRequest allocates a Request from the pool with refcount zero; callers
// must retain() it once per queue insertion before the pool can see it
// shared.
func (p *pool) newRequest(src *Interface, target string, mask Type, flags Flag, format string, args ...interface{}) *Request {
	r := p.alloc()
	r.Source = src
	r.Target = target
	r.Mask = mask
	r.Flags = flags
	if len(args) > 0 {
		r.Text = fmt.Sprintf(format, args...)
	} else {
		r.Text = format
	}
	return r
}
