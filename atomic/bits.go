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

// Package atomic holds the lock-free building block spec.md §5 and §9
// require for cross-thread interface-death signaling: workers may only OR
// type bits into an interface's state, never clear them, and the dispatcher
// is the sole clearer. sync/atomic.Uint32 gives exactly that without a mutex.
package atomic

import "sync/atomic"

// Bits is a lock-free bitset used as the backing store for dispatcher.Type.
// Workers call Or to raise flags (FINWAIT, DIED); only the dispatcher's own
// goroutine calls AndNot.
type Bits struct {
	v atomic.Uint32
}

// Load returns the current bit pattern.
func (b *Bits) Load() uint32 {
	return b.v.Load()
}

// Store replaces the bit pattern outright. Reserved for the owner goroutine.
func (b *Bits) Store(bits uint32) {
	b.v.Store(bits)
}

// Or atomically sets the given bits without disturbing any other bit.
// Safe to call concurrently from any number of workers.
func (b *Bits) Or(bits uint32) (after uint32) {
	for {
		old := b.v.Load()
		next := old | bits
		if old == next || b.v.CompareAndSwap(old, next) {
			return next
		}
	}
}

// AndNot atomically clears the given bits. Reserved for the owner goroutine
// per the "dispatcher is the sole clearer" rule, but implemented with a CAS
// loop so it remains correct even if that rule is ever relaxed.
func (b *Bits) AndNot(bits uint32) (after uint32) {
	for {
		old := b.v.Load()
		next := old &^ bits
		if old == next || b.v.CompareAndSwap(old, next) {
			return next
		}
	}
}

// Has reports whether all of bits are currently set.
func (b *Bits) Has(bits uint32) bool {
	return b.v.Load()&bits == bits
}

// HasAny reports whether any bit in bits is currently set.
func (b *Bits) HasAny(bits uint32) bool {
	return b.v.Load()&bits != 0
}
