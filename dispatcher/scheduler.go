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
	"context"
	"time"
)

// IdleSlice bounds how long a work-free scheduler pass sleeps before
// checking again (spec.md §4.2 "A pass with no work sleeps on the socket
// poller for up to a bounded slice"; spec.md §5 "default ~200 ms").
const IdleSlice = 200 * time.Millisecond

// Run drives the round-robin scheduler loop until ctx is cancelled. Exactly
// one goroutine should call Run for a given Core (spec.md §5 "One primary
// dispatcher task").
func (c *Core) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !c.tick() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(IdleSlice):
			}
		}
	}
}

// tick runs one round-robin pass over the interface table and reports
// whether any interface did work (spec.md §4.2 "Scheduler loop").
func (c *Core) tick() bool {
	unlock := c.lock()
	snapshot := make([]*Interface, len(c.all))
	copy(snapshot, c.all)
	unlock()

	didWork := false
	for _, i := range snapshot {
		if i.IsDied() || i.IsLocked() {
			continue
		}

		if i.Type().Has(FINWAIT) {
			i.typ.AndNot(uint32(FINWAIT))
			unlock = c.lock()
			c.sendSignalLocked(i, TERMINATE)
			unlock()
			if !i.Type().Has(FINWAIT) {
				i.MarkDied()
			}
			didWork = true
			continue
		}

		r := i.head()
		if r == nil || i.onReq == nil {
			continue
		}

		switch i.onReq(i, r) {
		case OK:
			i.pop()
		case REJECTED:
			// leave in place, do not serve again this tick
		case RELAYED:
			c.RelayRequest(r.Mask, r.Target, r)
			i.pop()
		}
		didWork = true
	}

	c.reap()
	return didWork
}

// reap drops DIED interfaces from the table and name index; called once
// per tick after the round-robin pass.
func (c *Core) reap() {
	unlock := c.lock()
	defer unlock()

	kept := c.all[:0]
	for _, i := range c.all {
		if i.IsDied() && i != c.boot {
			i.Drain()
			c.cntMu.Lock()
			c.cnt--
			c.cntMu.Unlock()
			for _, m := range c.byTyp {
				if m[i.Name] == i {
					delete(m, i.Name)
				}
			}
			continue
		}
		kept = append(kept, i)
	}
	c.all = kept
}
