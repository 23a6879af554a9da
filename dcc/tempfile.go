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
	"os"
)

// resumeBuffer holds bytes received while a resume offer is still waiting
// for a matching DCC ACCEPT (spec.md §4.4 "the receiver writes directly
// into the output file after an optional initial tmpfile buffering when it
// is still waiting for ACCEPT confirmation of a resume"). It is built the
// way the teacher's ioutils temp-file helper is: a single os.CreateTemp
// handle whose path is recovered for later rename/removal.
type resumeBuffer struct {
	f *os.File
}

// newResumeBuffer allocates a fresh named temp file ("dcc-resume-*") in the
// OS temp directory.
func newResumeBuffer() (*resumeBuffer, error) {
	f, err := os.CreateTemp(os.TempDir(), "dcc-resume-")
	if err != nil {
		return nil, err
	}
	return &resumeBuffer{f: f}, nil
}

// Write buffers n bytes while the state machine is still in Idle.
func (b *resumeBuffer) Write(p []byte) (int, error) {
	return b.f.Write(p)
}

// Path returns the backing file's path, for diagnostics and commit.
func (b *resumeBuffer) Path() string {
	return b.f.Name()
}

// Commit appends the buffered bytes to dst (the real output file, already
// positioned at the resume offset by the caller) and discards the temp
// file.
func (b *resumeBuffer) Commit(dst *os.File) error {
	if _, err := b.f.Seek(0, 0); err != nil {
		_ = b.Discard()
		return err
	}
	buf := make([]byte, 32*1024)
	for {
		n, rerr := b.f.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				_ = b.Discard()
				return werr
			}
		}
		if rerr != nil {
			break
		}
	}
	return b.Discard()
}

// Discard closes and removes the temp file without committing it (spec.md
// §4.4 failure path: a late or mismatched ACCEPT discards the buffer).
func (b *resumeBuffer) Discard() error {
	path := b.f.Name()
	cerr := b.f.Close()
	rerr := os.Remove(path)
	if cerr != nil {
		return cerr
	}
	return rerr
}
