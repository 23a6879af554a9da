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

package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/foxeye-go/corebus/certificates"
	"github.com/foxeye-go/corebus/config"
	"github.com/foxeye-go/corebus/dispatcher"
	"github.com/foxeye-go/corebus/logger"
	"github.com/foxeye-go/corebus/socket"
	"github.com/foxeye-go/corebus/timers"
)

// runtimeCore bundles the long-lived singletons the daemon wires together
// at startup: the dispatcher, the socket manager, the timer wheel driving
// TIMEOUT/REPORT signals, and (when configured) the TLS material DCC and
// listener sockets may need (spec.md §4.1 "Core object graph").
type runtimeCore struct {
	cfg *config.Core
	lg  logger.Logger

	dispatch *dispatcher.Core
	sockets  *socket.Manager
	wheel    *timers.Wheel
	tlsCfg   *tls.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// bootCore assembles the object graph; it never starts listening on any
// port itself; that is an external collaborator's job once it registers
// its own interfaces with the dispatcher.
func bootCore(cfg *config.Core, lg logger.Logger) (*runtimeCore, error) {
	rc := &runtimeCore{
		cfg:      cfg,
		lg:       lg,
		dispatch: dispatcher.New(),
		sockets:  socket.NewManager(),
	}
	rc.wheel = timers.NewWheel(rc.dispatch)

	if cfg.SSLCertificateFile != "" && cfg.SSLKeyFile != "" {
		tc := certificates.Config{
			CertFile: cfg.SSLCertificateFile,
			KeyFile:  cfg.SSLKeyFile,
		}
		srvCfg, err := tc.BuildServer()
		if err != nil {
			return nil, err
		}
		rc.tlsCfg = srvCfg
	}

	rc.dispatch.SetShutdown(func(reason string, code int) {
		lg.Warnf("shutdown requested: %s (code %d)", reason, code)
		if rc.cancel != nil {
			rc.cancel()
		}
	})

	return rc, nil
}

// run starts the timer wheel and the dispatcher's scheduler loop, blocking
// until a termination signal arrives or the dispatcher is asked to shut
// down (spec.md §6 "runs until SIGTERM/SIGINT or an internal shutdown").
func (rc *runtimeCore) run() {
	ctx, cancel := context.WithCancel(context.Background())
	rc.cancel = cancel

	rc.wheel.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	rc.wg.Add(1)
	go func() {
		defer rc.wg.Done()
		rc.dispatch.Run(ctx)
	}()

	select {
	case <-sigCh:
		rc.lg.Infof("caught termination signal")
	case <-ctx.Done():
	}
	cancel()
	rc.wg.Wait()
}

// shutdown stops the timer wheel and cancels the run context; it does not
// close sockets held by the socket manager. It is safe to call after run
// returns or after a failed boot.
func (rc *runtimeCore) shutdown() {
	if rc.wheel != nil {
		rc.wheel.Stop()
	}
	if rc.cancel != nil {
		rc.cancel()
	}
}
