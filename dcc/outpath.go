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

import (
	"fmt"
	"os"
	"path/filepath"
)

// nameMax mirrors the historical POSIX NAME_MAX the original clamps
// filenames to; Go has no portable syscall for it so the constant is
// carried directly (spec.md §4.4 "length-clamped to the platform's
// NAME_MAX").
const nameMax = 255

// Overwrite is the three-valued policy spec.md §4.4 names for an existing
// file at the chosen output path.
type Overwrite int

const (
	OverwriteAsk Overwrite = iota
	OverwriteYes
	OverwriteNo
)

// ResolveOutputPath picks the receiver's output path under incomingDir for
// a DCC SEND offer's advertised name, clamping the base name to nameMax
// bytes and appending a "~N" collision suffix when a file of that name
// already exists (spec.md §4.4 "chooses an output path... tilde-collision
// suffix").
func ResolveOutputPath(incomingDir, offered string) string {
	base := filepath.Base(offered)
	if len(base) > nameMax {
		base = base[:nameMax]
	}

	candidate := filepath.Join(incomingDir, base)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	for n := 1; ; n++ {
		suffix := fmt.Sprintf("~%d", n)
		name := stem + suffix + ext
		if len(name) > nameMax {
			trim := len(name) - nameMax
			if trim > len(stem) {
				trim = len(stem)
			}
			name = stem[:len(stem)-trim] + suffix + ext
		}
		candidate = filepath.Join(incomingDir, name)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// DecideOverwrite applies the configured policy against an existing file's
// size to choose overwrite, resume or skip (spec.md §4.4 "Existing files
// trigger one of three responses... Resume is gated by a configurable
// minimum file size").
func DecideOverwrite(policy Overwrite, existingSize, resumeMin int64, allowResume bool) (resume bool, skip bool) {
	switch policy {
	case OverwriteYes:
		return false, false
	case OverwriteNo:
		return false, true
	default: // OverwriteAsk: resume when large enough and permitted, else skip
		if allowResume && existingSize >= resumeMin {
			return true, false
		}
		return false, true
	}
}
