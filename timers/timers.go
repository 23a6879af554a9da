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

// Package timers implements the monotonic wheel of spec.md §4.5: a min-heap
// of absolute-deadline, one-shot timers addressed by a 32-bit tid, each
// delivering a signal through the dispatcher rather than a direct callback
// (spec.md "Expired timers enqueue the chosen signal through the
// dispatcher... so they compose with interface locking"). Grounded on the
// teacher's runner/ticker package (test-only in the retrieval pack, so its
// New/Start/Stop/IsRunning/Uptime lifecycle is this module's contract for a
// background-task-driven-by-a-ticker runner), generalized from one
// repeating interval to a heap of distinct one-shot deadlines.
package timers

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/foxeye-go/corebus/dispatcher"
)

// entry is one scheduled timer.
type entry struct {
	tid    uint32
	due    time.Time
	typ    dispatcher.Type
	name   string
	signal dispatcher.Signal
	index  int // heap.Interface bookkeeping
}

// entryHeap is a min-heap ordered by due time.
type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].due.Before(h[j].due) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x interface{}) { e := x.(*entry); e.index = len(*h); *h = append(*h, e) }
func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Wheel owns the heap and the single background goroutine that wakes for
// the next-soonest deadline (spec.md §4.5 "a wheel keyed by absolute
// wall-time, addressed by a 32-bit tid").
type Wheel struct {
	core *dispatcher.Core

	mu      sync.Mutex
	h       entryHeap
	byTid   map[uint32]*entry
	nextTid uint32

	wake chan struct{}

	running int32
	start   time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWheel builds an idle Wheel bound to core; timers it fires call
// core.SendSignal, never a direct callback.
func NewWheel(core *dispatcher.Core) *Wheel {
	return &Wheel{
		core:  core,
		byTid: make(map[uint32]*entry),
		wake:  make(chan struct{}, 1),
	}
}

// IsRunning reports whether the wheel's background goroutine is active.
func (w *Wheel) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

// Uptime returns how long the wheel has been running, or zero if stopped.
func (w *Wheel) Uptime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel == nil {
		return 0
	}
	return time.Since(w.start)
}

// Start launches the background goroutine that fires due timers until ctx
// is cancelled or Stop is called.
func (w *Wheel) Start(ctx context.Context) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.start = time.Now()
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.run(runCtx)
}

// Stop halts the background goroutine. Already-scheduled timers stay
// pending and fire once the wheel is started again.
func (w *Wheel) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (w *Wheel) run(ctx context.Context) {
	defer close(w.done)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		w.mu.Lock()
		var d time.Duration
		if len(w.h) == 0 {
			d = time.Hour
		} else {
			d = time.Until(w.h[0].due)
			if d < 0 {
				d = 0
			}
		}
		w.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			w.fireDue()
		case <-w.wake:
		}
	}
}

// fireDue pops every entry whose deadline has passed and delivers its
// signal through the dispatcher.
func (w *Wheel) fireDue() {
	now := time.Now()
	for {
		w.mu.Lock()
		if len(w.h) == 0 || w.h[0].due.After(now) {
			w.mu.Unlock()
			return
		}
		e := heap.Pop(&w.h).(*entry)
		delete(w.byTid, e.tid)
		w.mu.Unlock()

		w.core.SendSignal(e.typ, e.name, e.signal)
	}
}

// New schedules a signal delivery seconds from now to the interface(s)
// matching targetType/targetName, returning the tid (spec.md §4.5
// "new_timer(target_type, target_name, signal, seconds, …)").
func (w *Wheel) New(targetType dispatcher.Type, targetName string, signal dispatcher.Signal, seconds float64) uint32 {
	w.mu.Lock()
	w.nextTid++
	tid := w.nextTid
	e := &entry{
		tid:    tid,
		due:    time.Now().Add(time.Duration(seconds * float64(time.Second))),
		typ:    targetType,
		name:   targetName,
		signal: signal,
	}
	heap.Push(&w.h, e)
	w.byTid[tid] = e
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return tid
}

// Kill removes a previously scheduled timer by tid (spec.md §4.5
// "kill_timer(tid)"). A tid that already fired or never existed is a no-op.
func (w *Wheel) Kill(tid uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.byTid[tid]
	if !ok {
		return
	}
	heap.Remove(&w.h, e.index)
	delete(w.byTid, tid)
}

// Count returns the number of pending (not yet fired) timers.
func (w *Wheel) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.h)
}
