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

// Package certificates wraps stdlib crypto/tls with a small Config builder,
// grounded on the teacher's certificates/config.go + certificates/cert.go
// (validated-struct-builds-a-*tls.Config shape, trimmed of the CA-issuance
// machinery this module has no use for: it is a TLS client/server of
// existing certs, not a certificate authority).
package certificates

import (
	"crypto/tls"
	"errors"
)

// ErrMissingKeyPair is returned by Config.BuildServer when a server-side
// config is requested without both a certificate and a key file.
var ErrMissingKeyPair = errors.New("certificates: certificate and key file are both required for a server config")

// Config is the subset of spec.md §6's ssl-* directives the connchain TLS
// filter needs to build a *tls.Config.
type Config struct {
	CertFile   string
	KeyFile    string
	MinVersion uint16 // defaults to tls.VersionTLS12
}

// BuildServer produces a server-side *tls.Config from the configured
// certificate/key pair.
func (c Config) BuildServer() (*tls.Config, error) {
	if c.CertFile == "" || c.KeyFile == "" {
		return nil, ErrMissingKeyPair
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, err
	}
	min := c.MinVersion
	if min == 0 {
		min = tls.VersionTLS12
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   min,
	}, nil
}

// BuildClient produces a client-side *tls.Config; a client certificate is
// optional.
func (c Config) BuildClient() (*tls.Config, error) {
	min := c.MinVersion
	if min == 0 {
		min = tls.VersionTLS12
	}
	cfg := &tls.Config{MinVersion: min}
	if c.CertFile != "" && c.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
