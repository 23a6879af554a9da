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

import "sync"

// Interface is a named, typed sink in the bus (spec.md §3 "Interface").
type Interface struct {
	Name string
	Data interface{}

	sigFn SignalFunc
	onReq RequestFunc

	parent *Interface // back-link for clones

	conv Converter // optional charset conversion handle

	typ bits
	mu  sync.Mutex

	queue []*Request
}

// Converter converts request text between an external charset and the
// bus's internal charset; the zero value is the identity conversion.
type Converter interface {
	Convert(text string) string
	// Identity reports whether this handle is a no-op, so the dispatcher
	// can skip materializing a converted copy entirely (spec.md §4.2).
	Identity() bool
}

// Type returns the interface's current type bitset. Safe to call from any
// goroutine: it reads through the lock-free atomic.Bits word, which is the
// only field workers may mutate directly via MarkFinwait/MarkDied.
func (i *Interface) Type() Type { return Type(i.typ.Load()) }

// IsLocked reports whether the interface is LOCKED (accepts signals, not
// requests).
func (i *Interface) IsLocked() bool { return i.Type().Has(LOCKED) }

// IsDied reports whether the interface has been marked DIED.
func (i *Interface) IsDied() bool { return i.Type().Has(DIED) }

// MarkFinwait ORs in FINWAIT from any goroutine (spec.md §9 "workers only
// ever OR in FINWAIT/DIED").
func (i *Interface) MarkFinwait() { i.typ.Or(uint32(FINWAIT)) }

// MarkDied is the dispatcher-only transition out of FINWAIT into DIED.
func (i *Interface) MarkDied() { i.typ.Or(uint32(DIED)) }

// enqueue inserts r into the interface's FIFO at the position p selects.
// Called only from the dispatcher's own goroutine (the bus lock is held by
// the caller), so the interface's own mu additionally protects it from a
// worker goroutine that might be inspecting queue length concurrently.
func (i *Interface) enqueue(r *Request, p Priority) {
	r.retain()
	i.mu.Lock()
	defer i.mu.Unlock()
	switch p {
	case Quick:
		i.queue = append([]*Request{r}, i.queue...)
	case Ahead:
		if len(i.queue) == 0 {
			i.queue = append(i.queue, r)
		} else {
			n := len(i.queue)
			i.queue = append(i.queue, nil)
			copy(i.queue[n-1+1:], i.queue[n-1:n])
			i.queue[n-1] = r
		}
	default:
		i.queue = append(i.queue, r)
	}
}

// head returns the queue's first entry without removing it, or nil.
func (i *Interface) head() *Request {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.queue) == 0 {
		return nil
	}
	return i.queue[0]
}

// pop removes and releases the queue's first entry.
func (i *Interface) pop() {
	i.mu.Lock()
	if len(i.queue) == 0 {
		i.mu.Unlock()
		return
	}
	r := i.queue[0]
	i.queue = i.queue[1:]
	i.mu.Unlock()
	r.Release()
}

// RequestCount returns the number of requests currently queued.
func (i *Interface) RequestCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.queue)
}

// Drain releases every queued request without invoking a handler; used by
// tests and by the dispatcher's own reap path for a dying interface.
func (i *Interface) Drain() {
	i.mu.Lock()
	q := i.queue
	i.queue = nil
	i.mu.Unlock()
	for _, r := range q {
		r.Release()
	}
}

// rewriteTarget updates queued-but-not-yet-served requests that targeted
// oldName to newName (spec.md §4.2 "rename... rewrites pending queued
// requests that targeted the old name").
func (i *Interface) rewriteTarget(oldName, newName string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, r := range i.queue {
		if r.Target == oldName {
			r.Target = newName
		}
	}
}
