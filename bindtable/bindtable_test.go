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

package bindtable_test

import (
	"testing"

	"github.com/foxeye-go/corebus/bindtable"
)

func TestRunFiresInRegistrationOrder(t *testing.T) {
	r := bindtable.NewRegistry()
	var order []string
	r.Bind("in-filter", "*", 0, func(text string) (string, bool) {
		order = append(order, "first")
		return text + "-a", true
	})
	r.Bind("in-filter", "*", 0, func(text string) (string, bool) {
		order = append(order, "second")
		return text + "-b", true
	})

	out, fired := r.Run("in-filter", 0, "x")
	if !fired {
		t.Fatal("expected a binding to fire")
	}
	if out != "x-a-b" {
		t.Fatalf("out = %q, want %q", out, "x-a-b")
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v, want [first second]", order)
	}
}

func TestRunSkipsUnmatchedFlags(t *testing.T) {
	r := bindtable.NewRegistry()
	called := false
	r.Bind("passwd", "*", bindtable.Userflag(1), func(text string) (string, bool) {
		called = true
		return text, true
	})

	if _, fired := r.Run("passwd", bindtable.Userflag(2), "attempt"); fired || called {
		t.Fatal("binding with a disjoint flag mask must not fire")
	}
	if _, fired := r.Run("passwd", bindtable.Userflag(1), "attempt"); !fired || !called {
		t.Fatal("binding with a matching flag mask must fire")
	}
}

func TestRunOnUnknownTableIsNoop(t *testing.T) {
	r := bindtable.NewRegistry()
	out, fired := r.Run("nonexistent", 0, "text")
	if fired || out != "text" {
		t.Fatalf("Run on unknown table = (%q, %v), want (%q, false)", out, fired, "text")
	}
}

func TestUnbindRemovesByMask(t *testing.T) {
	r := bindtable.NewRegistry()
	r.Bind("dcc-got", "keep", 0, func(text string) (string, bool) { return text, true })
	r.Bind("dcc-got", "drop", 0, func(text string) (string, bool) { return text, true })

	r.Unbind("dcc-got", "drop")

	_, fired := r.Run("dcc-got", 0, "file.bin")
	if !fired {
		t.Fatal("expected the surviving binding to still fire")
	}
}

func TestNamesSorted(t *testing.T) {
	r := bindtable.NewRegistry()
	r.Bind("passwd", "*", 0, func(text string) (string, bool) { return text, false })
	r.Bind("dcc-got", "*", 0, func(text string) (string, bool) { return text, false })

	names := r.Names()
	if len(names) != 2 || names[0] != "dcc-got" || names[1] != "passwd" {
		t.Fatalf("Names() = %v, want [dcc-got passwd]", names)
	}
}
