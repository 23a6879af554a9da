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

// Package connchain implements the pluggable byte-stream filter pipeline
// that sits between a peer's protocol handler and the socket manager: a
// singly-linked stack of named links, grown and shrunk at runtime, with a
// registry of stock filters (line framer, telnet, bindtable, zlib, TLS).
package connchain

import "errors"

// ErrDuplicateTag is returned by Grow when the chain already carries a link
// with the requested tag (spec.md §4.3 "the chain rejects duplicates").
var ErrDuplicateTag = errors.New("connchain: duplicate filter tag")

// ErrNoSuchFilter is returned by Grow/Check when no registered filter
// answers the requested tag for this peer.
var ErrNoSuchFilter = errors.New("connchain: no such filter")

// ErrAgain is the transient "would block / no data yet" sentinel a Sock
// implementation returns from Read/Write when the underlying socket isn't
// ready. It is not connection-fatal (spec.md §7 "Transient... callers
// retry") and must flow through every link's Recv/Send untouched so Get can
// tell it apart from a real teardown.
var ErrAgain = errors.New("connchain: would block")

// Sock is the bottom-of-chain capability the terminal link talks to: the
// socket manager's per-index read/write pair (spec.md §3 "terminal link
// talks to the socket manager").
type Sock interface {
	Read(idx int, out []byte) (int, error)
	Write(idx int, buf []byte) (int, error)
}

// Link is the capability set every filter, stock or registered, must
// implement (spec.md §9 "Filter callbacks doubling send/recv through
// pointers → polymorphism over a capability set {send, recv, name_tag}").
type Link interface {
	Tag() byte
	// Recv reads upward: pulls from the link below (sock or inner link)
	// and returns translated bytes toward the peer.
	Recv(idx int, out []byte) (int, error)
	// Send writes downward: translates buf and pushes it to the link
	// below (or the socket for the bottom link).
	Send(idx int, buf []byte) (int, error)
	// Close tears the link down; implementations release their buffers.
	Close() error
}

// Factory builds a new Link instance for one grow() call. access reports
// whether this filter admits the given peer (spec.md §4.3 "whose access
// flags admit this peer").
type Factory struct {
	Tag    byte
	Access func(peerID string) bool
	New    func(sock Sock, idx int, below Link) (Link, error)
	Sticky bool
}

var registry = map[byte]Factory{}

// Register installs a filter factory under its tag. Stock filters register
// themselves from init() in their own files; protocol modules may register
// additional tags the same way (spec.md §4.3 "registered at runtime via the
// same bind-table mechanism used elsewhere").
func Register(f Factory) { registry[f.Tag] = f }

// Chain is a singly-linked stack of links rooted at a peer's socket index.
// Growing appends links on top so the most-recently-grown filter is
// outermost on write and innermost on read (spec.md §4.3).
type Chain struct {
	PeerID string
	Sock   Sock
	Idx    int

	links []Link // links[0] is the bottom (closest to the socket)
}

// New creates an empty chain rooted directly at sock/idx.
func New(peerID string, sock Sock, idx int) *Chain {
	return &Chain{PeerID: peerID, Sock: sock, Idx: idx}
}

// Grow appends a link of the given tag on top of the chain.
func (c *Chain) Grow(tag byte) error {
	for _, l := range c.links {
		if l.Tag() == tag {
			return ErrDuplicateTag
		}
	}
	f, ok := registry[tag]
	if !ok {
		return ErrNoSuchFilter
	}
	if f.Access != nil && !f.Access(c.PeerID) {
		return ErrNoSuchFilter
	}
	var below Link
	if n := len(c.links); n > 0 {
		below = c.links[n-1]
	}
	l, err := f.New(c.Sock, c.Idx, below)
	if err != nil {
		return err
	}
	c.links = append(c.links, l)
	if f.Sticky {
		stickyStore(c.PeerID, c)
	}
	return nil
}

// Check probes whether Grow would succeed without committing.
func (c *Chain) Check(tag byte) bool {
	for _, l := range c.links {
		if l.Tag() == tag {
			return false
		}
	}
	f, ok := registry[tag]
	if !ok {
		return false
	}
	return f.Access == nil || f.Access(c.PeerID)
}

// Shrink removes the topmost link (spec.md §4.3 "used when a pre-handshake
// byte peek reveals the assumed filter is wrong").
func (c *Chain) Shrink() error {
	if len(c.links) == 0 {
		return nil
	}
	n := len(c.links) - 1
	top := c.links[n]
	c.links = c.links[:n]
	return top.Close()
}

// top returns the outermost link, or nil if the chain is empty (raw
// socket).
func (c *Chain) top() Link {
	if len(c.links) == 0 {
		return nil
	}
	return c.links[len(c.links)-1]
}

// Put writes through the chain's outermost link (spec.md §4.3 "put"). A
// zero-length, non-nil buf is a readiness probe.
func (c *Chain) Put(buf []byte) (int, error) {
	if l := c.top(); l != nil {
		return l.Send(c.Idx, buf)
	}
	return c.Sock.Write(c.Idx, buf)
}

// Get reads through the chain's outermost link (spec.md §4.3 "get"). A
// transient ErrAgain (would-block, nothing ready yet) is returned as-is
// without disturbing the chain — only a genuine connection-fatal error
// tears the topmost link down, clears its sticky registration, and
// advances the head to the next link (spec.md §7 "Transient... callers
// retry" vs "Connection-fatal... caller closes").
func (c *Chain) Get(out []byte) (int, error) {
	l := c.top()
	if l == nil {
		return c.Sock.Read(c.Idx, out)
	}
	n, err := l.Recv(c.Idx, out)
	if err != nil && !errors.Is(err, ErrAgain) {
		stickyClear(c.PeerID)
		_ = c.Shrink()
	}
	return n, err
}

// Rebuild detaches a sticky chain's head so the old peer's chain can be torn
// down while the sticky link survives as a bounce into the replacement
// chain (spec.md §3 "Sticky chain links... survive a peer rebuild").
func (c *Chain) Rebuild(newChain *Chain) {
	rebuildSticky(c.PeerID, c, newChain)
}
