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

// Package bindtable is the in-module stand-in for the external protocol
// module collaborator that spec.md §2 places out of scope: a named
// registry of (pattern, flags, callback) tuples that connchain's 'b'
// filter (and, in a full install, DCC authorization hooks) consult to
// route work by name. No teacher package in the retrieval pack implements
// this exact eggdrop bind-table shape; it is grounded on dispatcher.Core's
// own registry-of-named-handlers structure (map keyed by name, first-match
// wins in insertion order), generalized from interfaces to bind entries.
package bindtable

import "sort"

// Userflag is the peer flag bitset a binding's Flags is matched against
// (spec.md §4.3 "respecting user-flags of the peer").
type Userflag uint32

// Binding is one (mask, flags, callback) tuple in a Table.
type Binding struct {
	Mask  string
	Flags Userflag
	Func  func(text string) (string, bool)
}

// Table is a named registry of bindings for one bindtable name (e.g.
// "in-filter", "out-filter", "dcc-got", "passwd").
type Table struct {
	entries []Binding
}

// Registry holds every named Table, process-wide.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Bind registers a callback under the named table, matching spec.md's
// "protocol modules register bind-tables with the dispatcher" contract.
func (r *Registry) Bind(table, mask string, flags Userflag, fn func(text string) (string, bool)) {
	t, ok := r.tables[table]
	if !ok {
		t = &Table{}
		r.tables[table] = t
	}
	t.entries = append(t.entries, Binding{Mask: mask, Flags: flags, Func: fn})
}

// Unbind removes every binding registered under table with the given mask.
func (r *Registry) Unbind(table, mask string) {
	t, ok := r.tables[table]
	if !ok {
		return
	}
	kept := t.entries[:0]
	for _, b := range t.entries {
		if b.Mask != mask {
			kept = append(kept, b)
		}
	}
	t.entries = kept
}

// Run invokes every binding in the named table, in registration order,
// whose Flags are zero or share at least one bit with peerFlags, threading
// text through each
// matching callback in turn — the eggdrop in-filter/out-filter chaining
// semantics spec.md §4.3 describes for the 'b' link. It returns the final
// text and whether any binding fired.
func (r *Registry) Run(table string, peerFlags Userflag, text string) (string, bool) {
	t, ok := r.tables[table]
	if !ok {
		return text, false
	}
	fired := false
	for _, b := range t.entries {
		if b.Flags != 0 && b.Flags&peerFlags == 0 {
			continue
		}
		if out, handled := b.Func(text); handled {
			text = out
			fired = true
		}
	}
	return text, fired
}

// Names returns the registered table names in sorted order, mainly for
// REPORT signal rendering.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tables))
	for n := range r.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
