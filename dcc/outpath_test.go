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

package dcc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/foxeye-go/corebus/dcc"
)

func TestResolveOutputPathFresh(t *testing.T) {
	dir := t.TempDir()
	got := dcc.ResolveOutputPath(dir, "file.ext")
	if got != filepath.Join(dir, "file.ext") {
		t.Fatalf("got %q", got)
	}
}

func TestResolveOutputPathCollision(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "file.ext"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := dcc.ResolveOutputPath(dir, "file.ext")
	want := filepath.Join(dir, "file~1.ext")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecideOverwrite(t *testing.T) {
	resume, skip := dcc.DecideOverwrite(dcc.OverwriteAsk, 1000, 512, true)
	if !resume || skip {
		t.Fatalf("expected resume, got resume=%v skip=%v", resume, skip)
	}

	resume, skip = dcc.DecideOverwrite(dcc.OverwriteAsk, 100, 512, true)
	if resume || !skip {
		t.Fatalf("expected skip below resume-min, got resume=%v skip=%v", resume, skip)
	}

	resume, skip = dcc.DecideOverwrite(dcc.OverwriteYes, 1000, 512, true)
	if resume || skip {
		t.Fatalf("expected plain overwrite, got resume=%v skip=%v", resume, skip)
	}
}
