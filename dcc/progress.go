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
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressReporter renders one live bar per in-flight transfer on the
// foreground console (-c startup flag), the console counterpart to the
// 16-slot rate ring's numeric REPORT sampling.
type ProgressReporter struct {
	p *mpb.Progress
}

// NewProgressReporter builds a reporter writing to w; pass os.Stdout for
// the foreground console, io.Discard when running detached.
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{p: mpb.New(mpb.WithOutput(w), mpb.WithWidth(48))}
}

// TransferBar tracks one session's cumulative byte count.
type TransferBar struct {
	bar *mpb.Bar
	cur int64
}

// Track registers a new bar for name/total (spec.md §4.4 transfer fields
// Name/Size).
func (r *ProgressReporter) Track(name string, total int64) *TransferBar {
	bar := r.p.AddBar(total,
		mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight})),
		mpb.AppendDecorators(decor.CountersKibiByte("% .2f / % .2f")),
	)
	return &TransferBar{bar: bar}
}

// SetCurrent advances the bar to an absolute cumulative byte count, the
// same cursor value RunSender/RunReceiver track.
func (t *TransferBar) SetCurrent(n int64) {
	t.bar.IncrInt64(n - t.cur)
	t.cur = n
}

// Done aborts the bar at its current count so Wait no longer waits on it;
// the bar is not marked complete and stays on the display.
func (t *TransferBar) Done() {
	t.bar.SetCurrent(t.bar.Current())
	t.bar.Abort(false)
}

// Wait blocks until every tracked bar has completed or been aborted.
func (r *ProgressReporter) Wait() {
	r.p.Wait()
}
