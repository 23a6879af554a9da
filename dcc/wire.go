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

// Package dcc drives the CTCP DCC file-transfer and chat protocols over
// the socket+connchain primitives (spec.md §4.4), bit-exact with the
// mIRC-style wire format of spec.md §6: CHAT/SEND/RESUME/ACCEPT commands
// plus the 4-byte big-endian cumulative-bytes ACK stream.
package dcc

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Command is the parsed form of one "DCC <verb> ..." CTCP payload.
type Command struct {
	Verb   string // CHAT, SEND, RESUME, ACCEPT
	Name   string // filename, or "chat" for CHAT
	IP     uint32 // host-byte-order IPv4, 0 for RESUME/ACCEPT without an IP
	Port   int    // 0 for a passive SEND offer
	Size   int64
	Offset int64
	Token  string // present iff passive
}

// ErrMalformed is returned by ParseCommand for any CTCP payload that does
// not match one of the four recognized DCC verbs (spec.md §7 "Protocol...
// malformed CTCP... logged with WARN, request is dropped").
var ErrMalformed = fmt.Errorf("dcc: malformed CTCP DCC command")

// ParseCommand parses the text following "DCC " in a CTCP message (spec.md
// §6 "DCC wire protocol (CTCP)").
func ParseCommand(text string) (Command, error) {
	fields := tokenize(text)
	if len(fields) < 2 {
		return Command{}, ErrMalformed
	}
	verb := strings.ToUpper(fields[0])
	var c Command
	c.Verb = verb

	switch verb {
	case "CHAT":
		if len(fields) < 4 {
			return Command{}, ErrMalformed
		}
		c.Name = "chat"
		ip, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.IP = uint32(ip)
		port, err := strconv.Atoi(fields[3])
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.Port = port
		return c, nil

	case "SEND":
		if len(fields) < 5 {
			return Command{}, ErrMalformed
		}
		c.Name = fields[1]
		ip, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.IP = uint32(ip)
		port, err := strconv.Atoi(fields[3])
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.Port = port
		size, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.Size = size
		if len(fields) >= 6 {
			c.Token = fields[5]
		}
		return c, nil

	case "RESUME", "ACCEPT":
		if len(fields) < 4 {
			return Command{}, ErrMalformed
		}
		c.Name = fields[1]
		port, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.Port = port
		offset, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return Command{}, ErrMalformed
		}
		c.Offset = offset
		if len(fields) >= 5 {
			c.Token = fields[4]
		}
		return c, nil

	default:
		return Command{}, ErrMalformed
	}
}

// tokenize splits on spaces while keeping a double-quoted filename as one
// field (spec.md §6 `DCC SEND "<name>" ...`).
func tokenize(text string) []string {
	var out []string
	i := 0
	for i < len(text) {
		for i < len(text) && text[i] == ' ' {
			i++
		}
		if i >= len(text) {
			break
		}
		if text[i] == '"' {
			j := i + 1
			for j < len(text) && text[j] != '"' {
				j++
			}
			out = append(out, text[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < len(text) && text[j] != ' ' {
			j++
		}
		out = append(out, text[i:j])
		i = j
	}
	return out
}

// FormatChat renders "DCC CHAT chat <ip> <port>".
func FormatChat(ip uint32, port int) string {
	return fmt.Sprintf("DCC CHAT chat %d %d", ip, port)
}

// FormatSend renders an active or passive "DCC SEND" offer (spec.md §6;
// port 0 + a token means a passive offer the recipient must listen for).
func FormatSend(name string, ip uint32, port int, size int64, token string) string {
	if token != "" {
		return fmt.Sprintf(`DCC SEND "%s" %d %d %d %s`, name, ip, port, size, token)
	}
	return fmt.Sprintf(`DCC SEND "%s" %d %d %d`, name, ip, port, size)
}

// FormatResume renders "DCC RESUME <name> <port> <offset>" or, for a
// passive send, "DCC RESUME <name> 0 <offset> <token>".
func FormatResume(name string, port int, offset int64, token string) string {
	if token != "" {
		return fmt.Sprintf(`DCC RESUME "%s" 0 %d %s`, name, offset, token)
	}
	return fmt.Sprintf(`DCC RESUME "%s" %d %d`, name, port, offset)
}

// FormatAccept renders "DCC ACCEPT <name> <port> <offset>" or its passive
// token form, mirroring FormatResume.
func FormatAccept(name string, port int, offset int64, token string) string {
	if token != "" {
		return fmt.Sprintf(`DCC ACCEPT "%s" 0 %d %s`, name, offset, token)
	}
	return fmt.Sprintf(`DCC ACCEPT "%s" %d %d`, name, port, offset)
}

// FormatErrmsg renders the "DCC ERRMSG <text>" CTCP reply used to report a
// transfer failure back to the originator (spec.md §7 "reported to the
// originator through a DCC ERRMSG CTCP reply").
func FormatErrmsg(text string) string {
	return "DCC ERRMSG " + text
}

// EncodeAck renders a 4-byte big-endian cumulative-bytes ACK (spec.md §6
// "ACK stream during transfer: 4-byte big-endian cumulative-bytes
// counters").
func EncodeAck(cumulative uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, cumulative)
	return buf
}

// DecodeAck parses a 4-byte big-endian cumulative-bytes ACK. It returns ok
// = false if buf is shorter than 4 bytes.
func DecodeAck(buf []byte) (cumulative uint32, ok bool) {
	if len(buf) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(buf[:4]), true
}
