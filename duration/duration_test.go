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

package duration_test

import (
	"encoding/json"
	"testing"
	"time"

	libdur "github.com/foxeye-go/corebus/duration"
)

func TestDuration_JSONRoundTrip(t *testing.T) {
	d := libdur.Seconds(45)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "45" {
		t.Fatalf("Marshal = %s, want 45", b)
	}

	var got libdur.Duration
	if err = json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Time() != 45*time.Second {
		t.Fatalf("got %v, want 45s", got.Time())
	}
}

func TestDuration_UnmarshalGoStyle(t *testing.T) {
	var got libdur.Duration
	if err := json.Unmarshal([]byte(`"2m"`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Time() != 2*time.Minute {
		t.Fatalf("got %v, want 2m", got.Time())
	}
}

func TestDuration_IsZero(t *testing.T) {
	var z libdur.Duration
	if !z.IsZero() {
		t.Fatalf("zero value should report IsZero")
	}
	if libdur.Seconds(1).IsZero() {
		t.Fatalf("non-zero value should not report IsZero")
	}
}
