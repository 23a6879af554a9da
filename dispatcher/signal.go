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

// Signal is the closed signal taxonomy of spec.md §4.2.
type Signal int

const (
	TERMINATE Signal = iota
	SHUTDOWN
	FLUSH
	REPORT
	STOP
	CONTINUE
	REG
	LOCAL
	TIMEOUT
)

func (s Signal) String() string {
	switch s {
	case TERMINATE:
		return "TERMINATE"
	case SHUTDOWN:
		return "SHUTDOWN"
	case FLUSH:
		return "FLUSH"
	case REPORT:
		return "REPORT"
	case STOP:
		return "STOP"
	case CONTINUE:
		return "CONTINUE"
	case REG:
		return "REG"
	case LOCAL:
		return "LOCAL"
	case TIMEOUT:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}
