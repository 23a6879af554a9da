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
	"strings"
	"testing"

	"github.com/foxeye-go/corebus/dcc"
)

func TestParseCommandChat(t *testing.T) {
	c, err := dcc.ParseCommand("CHAT chat 2130706433 40000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Verb != "CHAT" || c.IP != 2130706433 || c.Port != 40000 {
		t.Fatalf("got %+v", c)
	}
}

func TestParseCommandSendActive(t *testing.T) {
	c, err := dcc.ParseCommand(`SEND "a" 2130706433 40000 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "a" || c.Size != 3 || c.Port != 40000 || c.Token != "" {
		t.Fatalf("got %+v", c)
	}
}

func TestParseCommandSendPassive(t *testing.T) {
	c, err := dcc.ParseCommand(`SEND "a" 2130706433 0 3 7`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != 0 || c.Token != "7" {
		t.Fatalf("got %+v", c)
	}
}

func TestParseCommandResumeAccept(t *testing.T) {
	c, err := dcc.ParseCommand(`RESUME "file.ext" 40000 100`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Verb != "RESUME" || c.Name != "file.ext" || c.Port != 40000 || c.Offset != 100 {
		t.Fatalf("got %+v", c)
	}

	c2, err := dcc.ParseCommand(`ACCEPT "file.ext" 0 100 tok`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c2.Verb != "ACCEPT" || c2.Token != "tok" {
		t.Fatalf("got %+v", c2)
	}
}

func TestParseCommandMalformed(t *testing.T) {
	cases := []string{"", "BOGUS", "SEND", "CHAT chat notanip 1"}
	for _, tc := range cases {
		if _, err := dcc.ParseCommand(tc); err == nil {
			t.Errorf("ParseCommand(%q) expected error", tc)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	send := dcc.FormatSend("a", 2130706433, 40000, 3, "")
	c, err := dcc.ParseCommand(strings.TrimPrefix(send, "DCC "))
	if err != nil {
		t.Fatalf("parse formatted SEND: %v", err)
	}
	if c.Name != "a" || c.IP != 2130706433 || c.Port != 40000 || c.Size != 3 {
		t.Fatalf("round trip mismatch: %+v", c)
	}

	resume := dcc.FormatResume("file.ext", 0, 100, "tok")
	c2, err := dcc.ParseCommand(strings.TrimPrefix(resume, "DCC "))
	if err != nil {
		t.Fatalf("parse formatted RESUME: %v", err)
	}
	if c2.Token != "tok" || c2.Offset != 100 {
		t.Fatalf("round trip mismatch: %+v", c2)
	}
}

func TestAckEncodeDecode(t *testing.T) {
	buf := dcc.EncodeAck(12345)
	v, ok := dcc.DecodeAck(buf)
	if !ok || v != 12345 {
		t.Fatalf("got %d, %v", v, ok)
	}
	if _, ok := dcc.DecodeAck([]byte{1, 2}); ok {
		t.Fatal("expected ok=false for short buffer")
	}
}

func TestFormatErrmsg(t *testing.T) {
	if got := dcc.FormatErrmsg("boom"); got != "DCC ERRMSG boom" {
		t.Fatalf("got %q", got)
	}
}
