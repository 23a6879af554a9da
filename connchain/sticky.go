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

package connchain

import "sync"

// stickyRegistry maps peer ID to the chain holding its sticky (survive-
// rebuild) link, process-wide (spec.md §4.3 "Sticky registry").
var stickyRegistry sync.Map // string -> *Chain

func stickyStore(peerID string, c *Chain) {
	stickyRegistry.Store(peerID, c)
}

func stickyClear(peerID string) {
	stickyRegistry.Delete(peerID)
}

// bounceLink trampolines reads/writes into a replacement chain; installed
// in place of the old chain's top (sticky) link once its peer is rebuilt.
type bounceLink struct {
	tag byte
	to  *Chain
}

func (b *bounceLink) Tag() byte { return b.tag }
func (b *bounceLink) Recv(idx int, out []byte) (int, error) {
	return b.to.Get(out)
}
func (b *bounceLink) Send(idx int, buf []byte) (int, error) {
	return b.to.Put(buf)
}
func (b *bounceLink) Close() error { return nil }

// rebuildSticky detaches old's sticky top link, installs it onto newChain,
// and turns old's remaining stub into a bounce link that forwards into
// newChain — preserving the TLS session (or other sticky state) across a
// peer rebuild (spec.md §3, §4.3, scenario S7).
func rebuildSticky(peerID string, old, newChain *Chain) {
	v, ok := stickyRegistry.Load(peerID)
	if !ok || v.(*Chain) != old {
		return
	}
	if len(old.links) == 0 {
		return
	}

	sticky := old.links[len(old.links)-1]
	newChain.links = append(newChain.links, sticky)

	old.links[len(old.links)-1] = &bounceLink{tag: sticky.Tag(), to: newChain}
	stickyRegistry.Store(peerID, newChain)
}
