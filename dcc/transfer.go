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
	"io"
	"os"
	"time"

	"github.com/foxeye-go/corebus/connchain"
	"github.com/foxeye-go/corebus/dispatcher"
)

// MinBlock and MaxBlock bound the configured dcc-blocksize (spec.md §4.4
// "Block size is clamped to [MIN_BLOCK, MAX_BLOCK]").
const (
	MinBlock = 512
	MaxBlock = 65536
)

// ClampBlock applies the [MinBlock, MaxBlock] bound to a configured block
// size.
func ClampBlock(n int) int {
	if n < MinBlock {
		return MinBlock
	}
	if n > MaxBlock {
		return MaxBlock
	}
	return n
}

// bindtableSent/bindtableGot are the stock hooks a completed transfer fires
// (spec.md §4.4 "a 'sent' bindtable is invoked", "invokes the dcc-got
// bindtable").
const (
	bindtableSent = "dcc-sent"
	bindtableGot  = "dcc-got"
)

// Notifier is the minimal callback surface a transfer worker needs to run
// a bindtable hook and log without importing the bindtable/logger packages
// directly, keeping dcc's dependency surface one-directional.
type Notifier interface {
	Fire(table, text string) (string, bool)
	LogConn(format string, args ...interface{})
}

// RunSender drives the sender side of spec.md §4.4's transfer algorithm:
// an ahead-window of outstanding blocks, advanced only as the receiver's
// cumulative-byte ACKs catch up. It runs as a standalone worker goroutine
// and reports completion or failure back to the dispatcher purely through
// SendSignal, never by touching s.Iface directly from this goroutine
// (spec.md §5 "Workers... never touch another task's buffers").
func RunSender(s *Session, file *os.File, notify Notifier, bar *TransferBar) {
	block := ClampBlock(s.BlockSize)
	ahead := s.Ahead
	if ahead < 1 {
		ahead = 1
	}

	cursor := s.Offset
	acked := uint32(s.Offset)
	buf := make([]byte, block)
	ackBuf := make([]byte, 4)

	if cursor > 0 {
		if _, err := file.Seek(cursor, io.SeekStart); err != nil {
			s.failSender(notify, err)
			return
		}
	}

	for cursor < s.Size {
		// Drain any ACKs that arrived without blocking (spec.md's "reads
		// the next ACK if any"); the first block goes out without waiting
		// for one.
		for {
			n, err := s.Peer.Chain.Get(ackBuf)
			if err != nil || n < 4 {
				break
			}
			if v, ok := DecodeAck(ackBuf[:n]); ok {
				acked = v
			}
		}

		if int64(acked)+int64(ahead)*int64(block) < cursor {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		want := block
		if remain := s.Size - cursor; remain < int64(want) {
			want = int(remain)
		}
		n, err := file.Read(buf[:want])
		if n > 0 {
			if _, werr := s.Peer.Chain.Put(buf[:n]); werr != nil {
				s.failSender(notify, werr)
				return
			}
			cursor += int64(n)
			s.Rate.Add(time.Now().Unix(), int64(n))
			if bar != nil {
				bar.SetCurrent(cursor)
			}
		}
		if err != nil && err != io.EOF {
			s.failSender(notify, err)
			return
		}
		if n == 0 {
			break
		}
	}

	if bar != nil {
		bar.Done()
	}
	if notify != nil {
		notify.Fire(bindtableSent, s.Name)
	}
	s.Core.SendSignal(dispatcher.DCCALIAS, s.Iface.Name, dispatcher.REPORT)
	_ = s.transition(Lastwait)
}

func (s *Session) failSender(notify Notifier, err error) {
	if notify != nil {
		notify.LogConn("dcc send %s failed: %v", s.Name, err)
	}
	_ = s.transition(Quit)
	s.Core.SendSignal(dispatcher.DCCALIAS, s.Iface.Name, dispatcher.TERMINATE)
}

// RunReceiver drives the receiver side: write straight to the output file
// (or a resume tmpfile while waiting for ACCEPT), ACK every chunk, and
// ack-ahead up to s.Ahead blocks to keep the sender's pipe full (spec.md
// §4.4 "may 'ack-ahead' up to ahead blocks").
func RunReceiver(s *Session, file *os.File, resume *resumeBuffer, notify Notifier, bar *TransferBar) {
	block := ClampBlock(s.BlockSize)
	buf := make([]byte, block)

	received := s.Offset
	var sink io.Writer = file
	if resume != nil {
		sink = resume
	}

	acksSent := uint32(0)
	aheadCredit := s.Ahead
	if aheadCredit < 1 {
		aheadCredit = 1
	}

	for received < s.Size {
		n, err := s.Peer.Chain.Get(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				s.failReceiver(notify, werr)
				return
			}
			received += int64(n)
			s.Rate.Add(time.Now().Unix(), int64(n))
			if bar != nil {
				bar.SetCurrent(received)
			}

			acksSent++
			if int(acksSent)%aheadCredit == 0 || received >= s.Size {
				if _, werr := s.Peer.Chain.Put(EncodeAck(uint32(received))); werr != nil {
					s.failReceiver(notify, werr)
					return
				}
			}
		}
		if err != nil {
			if errors.Is(err, connchain.ErrAgain) {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			if err == io.EOF && received >= s.Size {
				break
			}
			s.failReceiver(notify, err)
			return
		}
	}

	if resume != nil {
		if _, err := file.Seek(s.Offset, io.SeekStart); err != nil {
			s.failReceiver(notify, err)
			return
		}
		if err := resume.Commit(file); err != nil {
			s.failReceiver(notify, err)
			return
		}
	}

	if bar != nil {
		bar.Done()
	}
	if notify != nil {
		notify.Fire(bindtableGot, s.Name)
	}
	s.Core.SendSignal(dispatcher.DCCALIAS, s.Iface.Name, dispatcher.REPORT)
	_ = s.transition(Lastwait)
}

func (s *Session) failReceiver(notify Notifier, err error) {
	if notify != nil {
		notify.LogConn("dcc get %s failed: %v", s.Name, err)
	}
	_ = s.transition(Quit)
	s.Core.SendSignal(dispatcher.DCCALIAS, s.Iface.Name, dispatcher.TERMINATE)
}
