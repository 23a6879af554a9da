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

// Package charset implements the reference-counted conversion handle
// spec.md §4.5 describes: a mapping between an external charset and the
// bot's internal charset, consulted by dispatcher when materializing
// per-interface request text (spec.md §4.2). Grounded on
// golang.org/x/text/encoding + golang.org/x/text/encoding/htmlindex for
// name lookup and golang.org/x/text/encoding/charmap as the 8-bit codepage
// fallback named in spec.md §4.5 — already present in the module graph via
// the teacher's own golang.org/x/text requirement.
package charset

import (
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Conv is a reference-counted charset conversion handle. The zero value
// (nil *Conv, or an identity-flagged Conv) is the identity function —
// spec.md §4.5 "Undefined or identity conversion is a null handle and is
// the identity function".
type Conv struct {
	name string
	enc  encoding.Encoding

	mu   sync.Mutex
	refc int
}

// internalFallback is the 8-bit codepage used when the configured internal
// charset cannot be resolved (spec.md §4.5 "fallback to an 8-bit codepage
// if the configured one is unavailable").
var internalFallback = charmap.ISO8859_1

// Lookup resolves name to a Conv via htmlindex. An empty name or
// "identity" (any case) yields the identity conversion; an unrecognized
// name falls back to the 8-bit codepage. Lookup never returns an error.
func Lookup(name string) *Conv {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.EqualFold(trimmed, "identity") {
		return &Conv{name: "identity"}
	}
	enc, err := htmlindex.Get(trimmed)
	if err != nil {
		return &Conv{name: trimmed, enc: internalFallback}
	}
	return &Conv{name: trimmed, enc: enc}
}

// Identity reports whether c is a no-op conversion (spec.md §4.2
// "Converter.Identity").
func (c *Conv) Identity() bool {
	return c == nil || c.enc == nil
}

// Name returns the resolved charset name, or "identity".
func (c *Conv) Name() string {
	if c == nil {
		return "identity"
	}
	return c.name
}

// Convert maps text from the internal charset to c's external charset (the
// dispatcher.Converter contract). Encoding errors fall back to returning the
// original text unconverted rather than dropping the request — a
// conversion failure is a Protocol-level concern logged by the caller, not
// a reason to lose the message.
func (c *Conv) Convert(text string) string {
	if c.Identity() {
		return text
	}
	out, err := c.enc.NewEncoder().String(text)
	if err != nil {
		return text
	}
	return out
}

// Decode maps text from c's external charset back to the internal
// charset, used when ingesting bytes off the wire before they reach the
// dispatcher.
func (c *Conv) Decode(text string) string {
	if c.Identity() {
		return text
	}
	out, err := c.enc.NewDecoder().String(text)
	if err != nil {
		return text
	}
	return out
}

// Retain and Release implement the reference count spec.md §4.5 requires
// of the handle itself (distinct from dispatcher.Request's own refcount):
// multiple interfaces may share one Conv, and it is only eligible for
// disposal once every interface referencing it has released it.
func (c *Conv) Retain() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.refc++
	c.mu.Unlock()
}

// Release drops one reference and reports whether this was the last one.
func (c *Conv) Release() bool {
	if c == nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refc--
	return c.refc <= 0
}
