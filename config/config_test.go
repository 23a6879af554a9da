/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	libcfg "github.com/foxeye-go/corebus/config"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := libcfg.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DCCAhead != 4 {
		t.Fatalf("expected default dcc-ahead=4, got %d", c.DCCAhead)
	}
	if c.DCCResume != libcfg.TriAsk {
		t.Fatalf("expected default dcc-resume=ask")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foxeye.yaml")
	body := "nick: testbot\ndcc-ahead: 8\ndcc-resume: \"yes\"\ndcc-connection-timeout: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := libcfg.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Nick != "testbot" {
		t.Fatalf("expected nick=testbot, got %q", c.Nick)
	}
	if c.DCCAhead != 8 {
		t.Fatalf("expected dcc-ahead=8, got %d", c.DCCAhead)
	}
	if c.DCCResume != libcfg.TriYes {
		t.Fatalf("expected dcc-resume=yes")
	}
	if c.DCCConnectionTimeout.Time().Seconds() != 30 {
		t.Fatalf("expected dcc-connection-timeout=30s, got %v", c.DCCConnectionTimeout.Time())
	}
}
