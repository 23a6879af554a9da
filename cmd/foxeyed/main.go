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

// Command foxeyed is the daemon entry point: it parses the historical CLI
// (spec.md §6 "Startup CLI"), loads configuration, manages the PID file,
// and wires the dispatcher, socket manager and timer wheel together before
// handing control to the scheduler loop.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foxeye-go/corebus/config"
	"github.com/foxeye-go/corebus/console"
	"github.com/foxeye-go/corebus/logger"
)

// Exit codes (spec.md §6 "Exit codes").
const (
	exitOK             = 0
	exitOptionError    = 1
	exitOutOfMemory    = 2
	exitFatalStartup   = 3
	exitForkOrPIDWrite = 5
	exitAlreadyRunning = 6
	exitLockCorruption = 7
	exitFatalSignal    = 10
)

// version is overridden at release build time via -ldflags.
var version = "dev"

type options struct {
	foreground   bool
	debugCount   int
	persistDebug bool
	genConfig    string
	makeFiles    bool
	nick         string
	quiet        bool
	resetDefault bool
	testConfig   bool
	showVersion  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt options
	var configPath string

	cmd := &cobra.Command{
		Use:           "foxeyed [config]",
		Short:         "FoxEye chat/bot daemon",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			if len(posArgs) == 1 {
				configPath = posArgs[0]
			}
			return nil
		},
	}
	cmd.SetArgs(args)

	cmd.Flags().BoolVarP(&opt.foreground, "console", "c", false, "keep foreground console")
	cmd.Flags().CountVarP(&opt.debugCount, "debug", "d", "raise debug level by one (repeatable)")
	cmd.Flags().BoolVarP(&opt.persistDebug, "persist-debug", "D", false, "enable persistent debug log to file")
	cmd.Flags().StringVarP(&opt.genConfig, "gen-config", "g", "", "emit a fresh config to `file` and exit")
	cmd.Flags().BoolVarP(&opt.makeFiles, "make-files", "m", false, "create empty user/channel files")
	cmd.Flags().StringVarP(&opt.nick, "nick", "n", "", "override nickname")
	cmd.Flags().BoolVarP(&opt.quiet, "quiet", "q", false, "suppress non-fatal stderr")
	cmd.Flags().BoolVarP(&opt.resetDefault, "reset-default", "r", false, "start with defaults (ignore config statements)")
	cmd.Flags().BoolVarP(&opt.testConfig, "test-config", "t", false, "test config and exit")
	cmd.Flags().BoolVarP(&opt.showVersion, "version", "v", false, "print version and exit")

	if err := cmd.Execute(); err != nil {
		console.Errorln(opt.quiet, "foxeyed: %v", err)
		return exitOptionError
	}

	return dispatch(opt, configPath)
}

func dispatch(opt options, configPath string) int {
	if opt.showVersion {
		fmt.Println("foxeyed " + version)
		return exitOK
	}

	if opt.genConfig != "" {
		if err := writeDefaultConfig(opt.genConfig); err != nil {
			console.Errorln(opt.quiet, "foxeyed: cannot write config: %v", err)
			return exitOptionError
		}
		return exitOK
	}

	if opt.makeFiles {
		if err := makeEmptyListfiles("."); err != nil {
			console.Errorln(opt.quiet, "foxeyed: cannot create listfiles: %v", err)
			return exitOptionError
		}
		return exitOK
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		console.Errorln(opt.quiet, "foxeyed: cannot load config: %v", err)
		return exitOptionError
	}
	if opt.resetDefault {
		fresh, _ := config.Load("")
		cfg = fresh
	}
	if opt.nick != "" {
		cfg.Nick = opt.nick
	}

	if opt.testConfig {
		console.Banner(true, "config OK: nick=%s", cfg.Nick)
		return exitOK
	}

	if cfg.Nick == "" {
		console.Errorln(opt.quiet, "foxeyed: no nick configured")
		return exitFatalStartup
	}

	pidPath := pidFilePath(configPath, cfg.Nick)
	if live, err := pidFileLive(pidPath); err != nil {
		console.Errorln(opt.quiet, "foxeyed: pid file check failed: %v", err)
		return exitFatalStartup
	} else if live {
		console.Errorln(opt.quiet, "foxeyed: already running (%s)", pidPath)
		return exitAlreadyRunning
	}
	if err := writePIDFile(pidPath, os.Getpid()); err != nil {
		console.Errorln(opt.quiet, "foxeyed: cannot write pid file: %v", err)
		return exitForkOrPIDWrite
	}
	defer os.Remove(pidPath)

	lg := logger.New()
	lvl := logger.InfoLevel
	for i := 0; i < opt.debugCount; i++ {
		if lvl > logger.DebugLevel {
			lvl--
		}
	}
	lg.SetLevel(lvl)
	if opt.persistDebug {
		if err := lg.EnableFileHook("foxeye.debug"); err != nil {
			lg.Warnf("cannot enable persistent debug log: %v", err)
		}
		defer lg.DisableFileHook()
	}

	if opt.foreground {
		console.Banner(true, "foxeyed %s starting as %s", version, cfg.Nick)
	}

	core, err := bootCore(cfg, lg)
	if err != nil {
		lg.Errorf("boot failed: %v", err)
		return exitFatalStartup
	}
	defer core.shutdown()

	core.run()

	if opt.foreground {
		console.Banner(false, "foxeyed shutting down")
	}
	return exitOK
}

func writeDefaultConfig(path string) error {
	const stub = "nick: \"\"\nincoming-path: \".\"\n"
	return os.WriteFile(path, []byte(stub), 0o644)
}

// makeEmptyListfiles creates the listfile/channel-file pair a fresh
// install needs, without overwriting files that already exist.
func makeEmptyListfiles(dir string) error {
	for _, name := range []string{"foxeye.users", "foxeye.chan"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return err
		}
	}
	return nil
}
