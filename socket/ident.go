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
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// identPort is the well-known RFC 1413 ident/auth service port.
const identPort = 113

// Ident opens a short-lived RFC 1413 query toward peerIP, asking which
// local user owns the connection between localPort and peerPort (spec.md
// §4.1 "For inbound accepted sockets the manager optionally opens a
// short-lived RFC 1413 ident query toward the peer with a configurable
// timeout"). It returns the reported identifier and true on a USERID
// reply, or "", false on any failure, timeout, or ERROR reply.
func (m *Manager) Ident(peerIP string, localPort, peerPort int) (string, bool) {
	addr := net.JoinHostPort(peerIP, strconv.Itoa(identPort))
	conn, err := net.DialTimeout("tcp", addr, m.identTimeout)
	if err != nil {
		return "", false
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(m.identTimeout))
	_, err = fmt.Fprintf(conn, "%d, %d\r\n", localPort, peerPort)
	if err != nil {
		return "", false
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", false
	}
	return parseIdentReply(line)
}

// parseIdentReply parses a one-line RFC 1413 response of the form
// "<lport>,<rport> : USERID : <os-type> : <user-id>" or
// "<lport>,<rport> : ERROR : <error-type>".
func parseIdentReply(line string) (string, bool) {
	fields := strings.Split(line, ":")
	if len(fields) < 2 {
		return "", false
	}
	kind := strings.TrimSpace(fields[1])
	if !strings.EqualFold(kind, "USERID") {
		return "", false
	}
	if len(fields) < 4 {
		return "", false
	}
	return strings.TrimSpace(fields[3]), true
}
