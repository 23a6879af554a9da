/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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
 */

// Package console prints the daemon's startup/shutdown banners in the
// foreground console mode (-c flag, spec.md §6), grounded on the teacher's
// console/color.go (fatih/color-backed colored output over a
// mattn/go-colorable writer so ANSI codes behave on Windows consoles too).
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

var out io.Writer = colorable.NewColorableStdout()

// SetOutput redirects banner output, used by tests to capture it.
func SetOutput(w io.Writer) { out = w }

// Banner prints a colored one-line status message, e.g. "starting" in
// green or "shutting down" in red.
func Banner(ok bool, format string, args ...interface{}) {
	c := color.New(color.FgRed)
	if ok {
		c = color.New(color.FgGreen)
	}
	_, _ = c.Fprintln(out, fmt.Sprintf(format, args...))
}

// Errorln prints an error-colored line to stderr unless quiet is set.
func Errorln(quiet bool, format string, args ...interface{}) {
	if quiet {
		return
	}
	c := color.New(color.FgRed)
	_, _ = c.Fprintln(os.Stderr, fmt.Sprintf(format, args...))
}
