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

package charset_test

import (
	"testing"

	"github.com/foxeye-go/corebus/charset"
)

func TestLookupEmptyIsIdentity(t *testing.T) {
	c := charset.Lookup("")
	if !c.Identity() {
		t.Fatal("empty name should resolve to identity")
	}
	if c.Name() != "identity" {
		t.Fatalf("Name() = %q, want identity", c.Name())
	}
	if got := c.Convert("hello"); got != "hello" {
		t.Fatalf("Convert on identity = %q, want unchanged", got)
	}
}

func TestLookupExplicitIdentity(t *testing.T) {
	c := charset.Lookup("Identity")
	if !c.Identity() {
		t.Fatal(`"Identity" (any case) should resolve to identity`)
	}
}

func TestLookupKnownCharset(t *testing.T) {
	c := charset.Lookup("windows-1252")
	if c.Identity() {
		t.Fatal("windows-1252 should not resolve to identity")
	}
	if c.Name() != "windows-1252" {
		t.Fatalf("Name() = %q, want windows-1252", c.Name())
	}
}

func TestLookupUnknownFallsBackToCodepage(t *testing.T) {
	c := charset.Lookup("not-a-real-charset")
	if c.Identity() {
		t.Fatal("unresolved charset should still fall back to a codepage, not identity")
	}
}

func TestNilConvIsIdentity(t *testing.T) {
	var c *charset.Conv
	if !c.Identity() {
		t.Fatal("nil *Conv must be identity")
	}
	if c.Name() != "identity" {
		t.Fatalf("Name() on nil = %q, want identity", c.Name())
	}
	if got := c.Convert("abc"); got != "abc" {
		t.Fatalf("Convert on nil = %q, want unchanged", got)
	}
	c.Retain()
	if !c.Release() {
		t.Fatal("Release on nil must report true (safe no-op)")
	}
}

func TestRetainRelease(t *testing.T) {
	c := charset.Lookup("windows-1252")
	c.Retain()
	c.Retain()
	if c.Release() {
		t.Fatal("one Release after two Retains must not yet be the last reference")
	}
	if !c.Release() {
		t.Fatal("second Release must report the last reference")
	}
}

func TestConvertDecodeRoundTrip(t *testing.T) {
	c := charset.Lookup("windows-1252")
	encoded := c.Convert("cafe")
	decoded := c.Decode(encoded)
	if decoded != "cafe" {
		t.Fatalf("round trip = %q, want cafe", decoded)
	}
}
