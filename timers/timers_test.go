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

package timers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foxeye-go/corebus/dispatcher"
	"github.com/foxeye-go/corebus/timers"
)

func TestWheelFiresSignalAtDeadline(t *testing.T) {
	core := dispatcher.New()

	var mu sync.Mutex
	var got dispatcher.Signal
	fired := make(chan struct{})

	core.Add(dispatcher.LOG, "watcher", func(i *dispatcher.Interface, sig dispatcher.Signal) dispatcher.Type {
		mu.Lock()
		got = sig
		mu.Unlock()
		close(fired)
		return 0
	}, nil, nil)

	w := timers.NewWheel(core)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	w.New(dispatcher.LOG, "watcher", dispatcher.TIMEOUT, 0.01)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if got != dispatcher.TIMEOUT {
		t.Fatalf("signal = %v, want TIMEOUT", got)
	}
}

func TestWheelKillCancelsPendingTimer(t *testing.T) {
	core := dispatcher.New()
	w := timers.NewWheel(core)

	tid := w.New(dispatcher.LOG, "x", dispatcher.REPORT, 10)
	if w.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", w.Count())
	}
	w.Kill(tid)
	if w.Count() != 0 {
		t.Fatalf("Count() after Kill = %d, want 0", w.Count())
	}
}

func TestWheelStartStopIdempotent(t *testing.T) {
	core := dispatcher.New()
	w := timers.NewWheel(core)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	if !w.IsRunning() {
		t.Fatal("expected wheel to be running after Start")
	}
	w.Start(ctx) // second Start must be a no-op, not a second goroutine
	w.Stop()
	if w.IsRunning() {
		t.Fatal("expected wheel to be stopped after Stop")
	}
}
