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
	"errors"
	"path"
	"strings"
	"sync"
)

// bootName is the hidden interface that buffers requests posted with a
// blank name mask until the boot phase ends (spec.md §4.2 "Boot barrier").
// Requests addressed by a plain name or a glob are not buffered there.
const bootName = "@boot"

// ErrStackUnderflow is returned by Unset when the interface stack is empty
// (spec.md §4.2 "errors surface if stack depth escapes").
var ErrStackUnderflow = errors.New("dispatcher: interface stack underflow")

// Core is the single process-wide object owning the interface table, the
// name index and the request pool (spec.md §9 "Global mutable state"). One goroutine — Run — drives
// its round-robin scheduler; everything else may call the public methods,
// which take the recursive bus lock.
type Core struct {
	mu   sync.Mutex // recursive: re-entered by a signal handler calling back in
	held bool

	cntMu sync.Mutex // narrow lock protecting live interface count for readers
	cnt   int

	all   []*Interface
	byTyp map[Type]map[string]*Interface // name -> interface, per exact type bit

	stack []*Interface

	pool *pool

	boot     *Interface
	bootDone bool

	shutdownFn func(reason string, code int)
}

// New builds an idle Core. Run must be started separately to drive the
// scheduler loop.
func New() *Core {
	c := &Core{
		byTyp: make(map[Type]map[string]*Interface),
		pool:  newPool(),
	}
	c.boot = &Interface{Name: bootName}
	c.boot.typ.Or(uint32(INIT))
	c.all = append(c.all, c.boot)
	c.cnt++
	return c
}

// lock acquires the recursive bus lock. Re-entrant calls from the same
// logical call chain (a signal handler invoking AddRequest) are allowed
// because the dispatcher's own goroutine is the only caller during a
// scheduler tick and holds the lock for the tick's whole duration; nested
// calls detect re-entrancy via the held flag instead of blocking themselves.
func (c *Core) lock() func() {
	c.mu.Lock()
	if c.held {
		// Re-entrant: unlock immediately, caller's outer frame still owns it.
		c.mu.Unlock()
		return func() {}
	}
	c.held = true
	return func() {
		c.held = false
		c.mu.Unlock()
	}
}

// Add registers a new interface (spec.md §4.2 "add").
func (c *Core) Add(typ Type, name string, sig SignalFunc, req RequestFunc, data interface{}) *Interface {
	unlock := c.lock()
	defer unlock()

	i := &Interface{Name: name, Data: data, sigFn: sig, onReq: req}
	i.typ.Or(uint32(typ))

	c.all = append(c.all, i)
	c.cntMu.Lock()
	c.cnt++
	c.cntMu.Unlock()

	if name != "" {
		for bit := Type(1); bit != 0; bit <<= 1 {
			if typ.Has(bit) {
				m, ok := c.byTyp[bit]
				if !ok {
					m = make(map[string]*Interface)
					c.byTyp[bit] = m
				}
				m[name] = i
			}
		}
	}

	return i
}

// AddClone registers a lookup-alias interface with no handlers of its own;
// signals aimed at it delegate to parent (spec.md §3 "an interface with no
// request handler is a clone that only serves as a lookup alias").
func (c *Core) AddClone(typ Type, name string, parent *Interface) *Interface {
	i := c.Add(typ, name, nil, nil, nil)
	i.parent = parent
	return i
}

// Find returns the first live interface matching typ/name, or nil. A blank
// name means "any interface of this type" (spec.md §4.2 "find").
func (c *Core) Find(typ Type, name string) *Interface {
	unlock := c.lock()
	defer unlock()
	return c.findLocked(typ, name)
}

func (c *Core) findLocked(typ Type, name string) *Interface {
	if name != "" {
		for bit := Type(1); bit != 0; bit <<= 1 {
			if !typ.Has(bit) {
				continue
			}
			if m, ok := c.byTyp[bit]; ok {
				if i, ok := m[name]; ok && !i.IsDied() {
					return i
				}
			}
		}
		return nil
	}
	for _, i := range c.all {
		if i.Type().HasAny(typ) && !i.IsDied() {
			return i
		}
	}
	return nil
}

// Set pushes i as the current context interface (spec.md §4.2 "set/unset").
func (c *Core) Set(i *Interface) {
	unlock := c.lock()
	defer unlock()
	c.stack = append(c.stack, i)
}

// Unset pops the current context interface.
func (c *Core) Unset() error {
	unlock := c.lock()
	defer unlock()
	if len(c.stack) == 0 {
		return ErrStackUnderflow
	}
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

// Rename rewrites pending queued requests and the name index, then emits a
// FLUSH signal to i (spec.md §4.2 "rename").
func (c *Core) Rename(i *Interface, newName string) {
	unlock := c.lock()

	old := i.Name
	for _, other := range c.all {
		other.rewriteTarget(old, newName)
	}
	for bit, m := range c.byTyp {
		if _, ok := m[old]; ok && i.Type().Has(bit) {
			delete(m, old)
			m[newName] = i
		}
	}
	i.Name = newName
	unlock()
	c.sendSignalLocked(i, FLUSH)
}

// Count returns the number of live interfaces without taking the bus lock,
// via the narrow count lock (spec.md §4.2 "a fine-grained lock that
// protects the interface count for readers from worker tasks").
func (c *Core) Count() int {
	c.cntMu.Lock()
	defer c.cntMu.Unlock()
	return c.cnt
}

// NewRequest posts directly to one interface, bypassing matching (spec.md
// §4.2 "new_request").
func (c *Core) NewRequest(i *Interface, flags Flag, p Priority, format string, args ...interface{}) *Request {
	unlock := c.lock()
	defer unlock()
	r := c.pool.newRequest(nil, i.Name, i.Type(), flags, format, args...)
	c.deliverLocked(i, r, p)
	return r
}

// AddRequest is the primary message-posting verb (spec.md §4.2
// "add_request"). nameMask may be a plain name, a glob, or blank.
func (c *Core) AddRequest(mask Type, nameMask string, flags Flag, p Priority, format string, args ...interface{}) *Request {
	unlock := c.lock()
	defer unlock()

	r := c.pool.newRequest(nil, nameMask, mask, flags, format, args...)
	c.routeLocked(r, mask, nameMask, p)
	return r
}

// RelayRequest re-posts an already-received request to further matching
// interfaces, skipping its current source (spec.md §4.2 "relay_request").
func (c *Core) RelayRequest(typ Type, nameMask string, r *Request) {
	unlock := c.lock()
	defer unlock()
	c.routeSkippingLocked(r, typ, nameMask, Normal, r.Source)
}

// routeLocked implements the three-tier matching order of spec.md §4.2:
// exact name, then service-collector "@suffix" fan-out, then catch-all "*".
func (c *Core) routeLocked(r *Request, mask Type, nameMask string, p Priority) {
	c.routeSkippingLocked(r, mask, nameMask, p, nil)
}

func (c *Core) routeSkippingLocked(r *Request, mask Type, nameMask string, p Priority, skip *Interface) {
	isGlob := strings.ContainsAny(nameMask, "*?[")

	if !isGlob && nameMask != "" {
		for bit := Type(1); bit != 0; bit <<= 1 {
			if !mask.Has(bit) {
				continue
			}
			if m, ok := c.byTyp[bit]; ok {
				if i, ok := m[nameMask]; ok && i != skip && !i.IsDied() {
					c.deliverLocked(i, r, p)
				}
			}
		}
		if at := strings.IndexByte(nameMask, '@'); at >= 0 {
			suffix := nameMask[at:]
			for _, i := range c.all {
				if i == skip || i.IsDied() || i.Name == "" {
					continue
				}
				if i.Type().HasAny(mask) && strings.HasSuffix(i.Name, suffix) {
					c.deliverLocked(i, r, p)
				}
			}
		}
		for _, i := range c.all {
			if i == skip || i.IsDied() || i.Name != "*" {
				continue
			}
			if i.Type().HasAny(mask) {
				c.deliverLocked(i, r, p)
			}
		}
		return
	}

	// Glob scan: both type and name must match (spec.md §4.2 rule 2).
	for _, i := range c.all {
		if i == skip || i.IsDied() {
			continue
		}
		if !i.Type().HasAny(mask) {
			continue
		}
		if nameMask == "" || globMatch(nameMask, i.Name) {
			c.deliverLocked(i, r, p)
		}
	}

	if isGlob {
		if console := c.findLocked(CONSOLE, ""); console != nil && console != skip {
			c.deliverLocked(console, r, p)
		}
	}

	if !c.bootDone && !isGlob {
		c.deliverLocked(c.boot, r, p)
	}
}

func globMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// deliverLocked applies the per-interface charset materialization rule of
// spec.md §4.2: interfaces with a non-identity Converter get their own
// converted copy; others see the original shared by reference.
func (c *Core) deliverLocked(i *Interface, r *Request, p Priority) {
	if i.IsLocked() {
		// LOCKED interfaces still accept signals but not requests (spec.md §3).
		return
	}
	if i.conv != nil && !i.conv.Identity() {
		cp := c.pool.newRequest(r.Source, r.Target, r.Mask, r.Flags, i.conv.Convert(r.Text))
		i.enqueue(cp, p)
		return
	}
	i.enqueue(r, p)
}

// SendSignal synchronously invokes the signal handler on every matching
// interface; a clone with no handler of its own forwards to its parent
// (spec.md §4.2 "send_signal").
func (c *Core) SendSignal(typ Type, nameMask string, sig Signal) {
	unlock := c.lock()
	snapshot := make([]*Interface, len(c.all))
	copy(snapshot, c.all)
	unlock()

	isGlob := strings.ContainsAny(nameMask, "*?[")
	for _, i := range snapshot {
		if i.IsDied() {
			continue
		}
		if !i.Type().HasAny(typ) {
			continue
		}
		if nameMask != "" {
			if isGlob {
				if !globMatch(nameMask, i.Name) {
					continue
				}
			} else if i.Name != nameMask {
				continue
			}
		}
		c.sendSignalLocked(i, sig)
	}
}

func (c *Core) sendSignalLocked(i *Interface, sig Signal) {
	target := i
	for target.sigFn == nil && target.parent != nil {
		target = target.parent
	}
	if target.sigFn == nil {
		return
	}
	got := target.sigFn(target, sig)
	if got != 0 {
		target.typ.Or(uint32(got))
	}
}

// EndBoot ends the boot phase: every message queued on the hidden boot
// interface is relayed to the real interfaces that became available in the
// meantime, then the boot interface dies (spec.md §4.2 "Boot barrier").
func (c *Core) EndBoot() {
	unlock := c.lock()
	c.bootDone = true
	pending := c.boot.queue
	c.boot.queue = nil
	unlock()

	for _, r := range pending {
		c.RelayRequest(r.Mask, r.Target, r)
		r.Release()
	}

	unlock = c.lock()
	c.boot.typ.Or(uint32(DIED))
	unlock()
}

// SetShutdown installs the single "shutdown with reason" escalation path
// used by every fatal condition (spec.md §4.2 "Failure model").
func (c *Core) SetShutdown(fn func(reason string, code int)) {
	c.shutdownFn = fn
}

// Shutdown signals SHUTDOWN to every live interface and invokes the
// installed shutdown function — best-effort, synchronous, non-recoverable
// (spec.md §7 "Resource"/"Fatal signal"). It does not flush the console.
func (c *Core) Shutdown(reason string, code int) {
	c.SendSignal(^Type(0), "", SHUTDOWN)
	if c.shutdownFn != nil {
		c.shutdownFn(reason, code)
	}
}
