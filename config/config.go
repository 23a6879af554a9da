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

// Package config is the spf13/viper-backed component registry that holds
// the directives of spec.md §6 ("Config directives consumed by the core"),
// grounded on the teacher's config/component.go (one component per
// concern) and config/manage.go (load/reload lifecycle).
package config

import (
	"time"

	"github.com/spf13/viper"

	libdur "github.com/foxeye-go/corebus/duration"
)

// Tri is a three-valued boolean (yes/no/ask), used by dcc-resume and
// dcc-get-overwrite (spec.md §4.4 "a three-valued boolean").
type Tri int

const (
	TriAsk Tri = iota
	TriYes
	TriNo
)

func parseTri(s string) Tri {
	switch s {
	case "yes", "true", "1":
		return TriYes
	case "no", "false", "0":
		return TriNo
	default:
		return TriAsk
	}
}

// Core holds every directive the runtime core itself reads; protocol- and
// UI-specific directives are an external collaborator's concern.
type Core struct {
	Nick         string
	IncomingPath string

	DCCAhead             int
	DCCConnectionTimeout libdur.Duration
	DCCResumeTimeout     libdur.Duration
	DCCResumeMin         int64
	DCCGetMaxSize        int64
	DCCBlockSize         int
	DCCAllowCTCPChat     bool
	DCCResume            Tri
	DCCGet               bool
	DCCAcceptChat        bool
	DCCGetOverwrite      Tri
	DCCAllowResume       bool

	SSLCertificateFile    string
	SSLKeyFile            string
	SSLEnableServerBypass bool
}

// Load reads path (if non-empty) via viper and fills in the defaults the
// original historical tool shipped (spec.md §6 directive table).
func Load(path string) (*Core, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("dcc-ahead", 4)
	v.SetDefault("dcc-connection-timeout", 120)
	v.SetDefault("dcc-resume-timeout", 60)
	v.SetDefault("dcc-resume-min", 10240)
	v.SetDefault("dcc-get-maxsize", 0)
	v.SetDefault("dcc-blocksize", 2048)
	v.SetDefault("dcc-allow-ctcp-chat", true)
	v.SetDefault("dcc-resume", "ask")
	v.SetDefault("dcc-get", true)
	v.SetDefault("dcc-accept-chat", true)
	v.SetDefault("dcc-get-overwrite", "ask")
	v.SetDefault("dcc-allow-resume", true)
	v.SetDefault("ssl-enable-server-bypass", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	c := &Core{
		Nick:                  v.GetString("nick"),
		IncomingPath:          v.GetString("incoming-path"),
		DCCAhead:              v.GetInt("dcc-ahead"),
		DCCConnectionTimeout:  libdur.Seconds(int64(v.GetDuration("dcc-connection-timeout").Seconds())),
		DCCResumeTimeout:      libdur.Seconds(int64(v.GetDuration("dcc-resume-timeout").Seconds())),
		DCCResumeMin:          v.GetInt64("dcc-resume-min"),
		DCCGetMaxSize:         v.GetInt64("dcc-get-maxsize"),
		DCCBlockSize:          v.GetInt("dcc-blocksize"),
		DCCAllowCTCPChat:      v.GetBool("dcc-allow-ctcp-chat"),
		DCCResume:             parseTri(v.GetString("dcc-resume")),
		DCCGet:                v.GetBool("dcc-get"),
		DCCAcceptChat:         v.GetBool("dcc-accept-chat"),
		DCCGetOverwrite:       parseTri(v.GetString("dcc-get-overwrite")),
		DCCAllowResume:        v.GetBool("dcc-allow-resume"),
		SSLCertificateFile:    v.GetString("ssl-certificate-file"),
		SSLKeyFile:            v.GetString("ssl-key-file"),
		SSLEnableServerBypass: v.GetBool("ssl-enable-server-bypass"),
	}

	// dcc-connection-timeout/-resume-timeout are plain integer seconds in
	// the historical config, not Go duration strings; viper's GetDuration
	// mishandles a bare integer as nanoseconds, so re-read as int seconds
	// when the duration round-trip produced an implausible sub-second value.
	if c.DCCConnectionTimeout.Time() < time.Second {
		c.DCCConnectionTimeout = libdur.Seconds(v.GetInt64("dcc-connection-timeout"))
	}
	if c.DCCResumeTimeout.Time() < time.Second {
		c.DCCResumeTimeout = libdur.Seconds(v.GetInt64("dcc-resume-timeout"))
	}

	return c, nil
}
