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

package socket

import (
	"context"
	"net"
	"strings"

	"golang.org/x/net/idna"

	coreerr "github.com/foxeye-go/corebus/errors"
)

// resolve looks up domain via the platform resolver, IDNA-encoding
// non-ASCII hostnames first (spec.md §4.1 "DNS and ident... uses the
// platform getaddrinfo with IDNA encoding for non-ASCII hostnames when
// available"). Already-literal IP addresses pass through unchanged.
func (m *Manager) resolve(ctx context.Context, domain string) (string, coreerr.Code) {
	if domain == "" {
		return "", coreerr.UndefDomain
	}
	if ip := net.ParseIP(domain); ip != nil {
		return domain, coreerr.OK
	}

	ascii := domain
	if !isASCII(domain) {
		encoded, err := idna.Lookup.ToASCII(domain)
		if err == nil {
			ascii = encoded
		}
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, ascii)
	if err != nil {
		if ctx.Err() != nil {
			return "", coreerr.ResolveTimeout
		}
		return "", coreerr.NoSuchDomain
	}
	if len(addrs) == 0 {
		return "", coreerr.NoSuchDomain
	}
	return addrs[0].IP.String(), coreerr.OK
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// ReverseDNS resolves ip's canonical PTR name, storing it only if it
// forward-resolves back to ip when strict backresolve is enabled (spec.md
// §4.1 "the canonical reverse-DNS name is stored only if it forward-
// resolves back to the same address when strict backresolve is enabled").
func (m *Manager) ReverseDNS(ctx context.Context, ip string) (string, bool) {
	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return "", false
	}
	name := strings.TrimSuffix(names[0], ".")

	if !m.strictBack {
		return name, true
	}

	fwd, ce := m.resolve(ctx, name)
	if ce != coreerr.OK || fwd != ip {
		return "", false
	}
	return name, true
}
