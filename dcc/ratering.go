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

import "sync"

// ringSlots is the ring's fixed width (spec.md §4.4 "A 16-slot ring indexed
// by timestamp mod 16").
const ringSlots = 16

// RateRing accumulates bytes transferred per wall-clock second into 16
// slots addressed by timestamp modulo 16, generalizing the teacher's
// bandwidth limiter (a single last-send-timestamp gate) into a short
// rolling history suitable for the REPORT signal's speed average.
type RateRing struct {
	mu       sync.Mutex
	slots    [ringSlots]int64
	lastSec  int64
	lastInit bool
}

// NewRateRing returns a zeroed ring.
func NewRateRing() *RateRing {
	return &RateRing{}
}

// Add records n bytes transferred at wall-clock second now (a Unix
// timestamp). Seconds skipped since the last Add are zeroed out so a stall
// does not leave stale high values in the average.
func (r *RateRing) Add(now int64, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearSkipped(now)
	r.slots[now%ringSlots] += n
	r.lastSec = now
	r.lastInit = true
}

// clearSkipped zeroes every slot after the last recorded second up to and
// including now, bounded to one full revolution.
func (r *RateRing) clearSkipped(now int64) {
	if !r.lastInit {
		r.slots[now%ringSlots] = 0
		return
	}
	gap := now - r.lastSec
	if gap <= 0 {
		return
	}
	if gap > ringSlots {
		gap = ringSlots
	}
	for g := int64(1); g <= gap; g++ {
		r.slots[(r.lastSec+g)%ringSlots] = 0
	}
}

// Average returns the mean bytes/second over the ring's 16-second window,
// used to populate the REPORT signal's speed field (spec.md §4.4 "Rate
// reporting").
func (r *RateRing) Average() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, v := range r.slots {
		sum += v
	}
	return float64(sum) / float64(ringSlots)
}
