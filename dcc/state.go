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

// State is one node of the terminal DCC session state machine (spec.md
// §4.4 "Session states").
type State int

const (
	Disconnected State = iota // slot exists, no socket yet
	Initial                   // socket allocated, waiting for the peer
	Idle                      // DCC RESUME sent, awaiting matching ACCEPT
	Talk                      // transferring bytes (or chatting)
	Quit                      // user declined before transfer started
	Lastwait                  // terminal: dispatcher will reap
)

// String renders the state's name as logged by the dispatcher's interface
// reports.
func (s State) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Initial:
		return "INITIAL"
	case Idle:
		return "IDLE"
	case Talk:
		return "TALK"
	case Quit:
		return "QUIT"
	case Lastwait:
		return "LASTWAIT"
	default:
		return "UNKNOWN"
	}
}

// Kind distinguishes the three peer shapes a Session drives, since CHAT,
// SEND (sender side) and GET (receiver side) share the state machine but
// not the per-tick work.
type Kind int

const (
	KindChat Kind = iota
	KindSend
	KindGet
)

// transitions enumerates the state machine's legal edges (spec.md §4.4
// diagram); Session.transition rejects anything not listed here.
var transitions = map[State][]State{
	Disconnected: {Initial, Quit},
	Initial:      {Talk, Idle, Quit, Lastwait},
	Idle:         {Talk, Quit, Lastwait},
	Talk:         {Lastwait, Quit},
	Quit:         {Lastwait},
	Lastwait:     {},
}

func legal(from, to State) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
