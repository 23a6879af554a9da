/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package duration is a time.Duration wrapper used for every timeout the
// core exposes to configuration: dcc-connection-timeout, dcc-resume-timeout,
// the poll loop's bounded sleep slice, and so on (spec.md §6 "Config
// directives consumed by the core").
//
// It exists, instead of a bare time.Duration, so config values can be
// expressed as plain integer seconds (the historical FoxEye config style)
// while the rest of the core works with time.Duration everywhere else.
package duration

import (
	"encoding/json"
	"strconv"
	"time"
)

// Duration is a time.Duration in disguise, round-trippable as a plain
// integer number of seconds in JSON. It has no YAML marshalers of its own.
type Duration time.Duration

// Seconds builds a Duration from a whole number of seconds.
func Seconds(s int64) Duration {
	return Duration(time.Duration(s) * time.Second)
}

// Time returns the stdlib time.Duration value.
func (d Duration) Time() time.Duration {
	return time.Duration(d)
}

// IsZero reports whether the duration is the zero value (no timeout).
func (d Duration) IsZero() bool {
	return d == 0
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON renders the duration as a whole number of seconds, matching
// the integer-seconds config directives of spec.md §6.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(time.Duration(d).Seconds()), 10)), nil
}

// UnmarshalJSON accepts either a bare integer (seconds) or a Go duration
// string ("30s", "2m") for operator convenience.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Seconds(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}
