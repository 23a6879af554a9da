/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package certificates_test

import (
	"testing"

	libcrt "github.com/foxeye-go/corebus/certificates"
)

func TestBuildServer_RequiresKeyPair(t *testing.T) {
	c := libcrt.Config{}
	if _, err := c.BuildServer(); err != libcrt.ErrMissingKeyPair {
		t.Fatalf("expected ErrMissingKeyPair, got %v", err)
	}
}

func TestBuildClient_NoCertIsValid(t *testing.T) {
	c := libcrt.Config{}
	cfg, err := c.BuildClient()
	if err != nil {
		t.Fatalf("BuildClient: %v", err)
	}
	if len(cfg.Certificates) != 0 {
		t.Fatalf("expected no client certificate configured")
	}
}
